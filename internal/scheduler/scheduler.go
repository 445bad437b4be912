package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
)

const (
	tickTimeout = 2 * time.Minute
	bulkTimeout = 10 * time.Minute
)

// Scheduler refreshes the rate snapshot once a day at a fixed wall-clock time
// and, when a refresh activates a new snapshot, kicks off a global cache
// recalculation. It talks to the rest of the system only through the service
// ports; a failed tick is logged and the next one proceeds independently.
type Scheduler struct {
	snapshots portssvc.RateSnapshotRefresherSvc
	rateCache portssvc.RateRecalcSvc
	logger    *slog.Logger

	hour     int
	minute   int
	location *time.Location

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a scheduler firing daily at the given "HH:MM" wall-clock time
// in the given location.
func New(snapshots portssvc.RateSnapshotRefresherSvc, rateCache portssvc.RateRecalcSvc, logger *slog.Logger, refreshAt string, location *time.Location) (*Scheduler, error) {
	hour, minute, err := parseWallClock(refreshAt)
	if err != nil {
		return nil, err
	}
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		snapshots: snapshots,
		rateCache: rateCache,
		logger:    logger,
		hour:      hour,
		minute:    minute,
		location:  location,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start launches the tick loop in the background.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	s.logger.Info("Rate refresh scheduler started",
		slog.String("refresh_at", fmt.Sprintf("%02d:%02d", s.hour, s.minute)),
	)
}

// Stop signals the loop to exit and waits for in-flight work to finish.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) loop() {
	for {
		wait := time.Until(s.nextRun(time.Now().In(s.location)))
		select {
		case <-time.After(wait):
			// tick
		case <-s.stopCh:
			return
		}
		s.runTick()
	}
}

// nextRun returns the next occurrence of the configured wall-clock time
// strictly after now. Missed ticks are not replayed.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.location)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// runTick performs one refresh. On a run that activated a new snapshot it
// launches the bulk recalculation on its own goroutine, so a slow recompute
// never delays the next scheduled tick.
func (s *Scheduler) runTick() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	snapshot, err := s.snapshots.Refresh(ctx)
	if err != nil {
		s.logger.Warn("Scheduled rate refresh failed", slog.String("error", err.Error()))
		return
	}

	s.logger.Info("Scheduled rate refresh succeeded", slog.String("snapshot_id", snapshot.SnapshotID))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.recomputeAll(snapshot.SnapshotID)
	}()
}

func (s *Scheduler) recomputeAll(snapshotID string) {
	ctx, cancel := context.WithTimeout(context.Background(), bulkTimeout)
	defer cancel()

	result, err := s.rateCache.RecomputeAll(ctx)
	if err != nil {
		s.logger.Error("Bulk recalculation after refresh failed",
			slog.String("snapshot_id", snapshotID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("Bulk recalculation after refresh completed",
		slog.String("snapshot_id", snapshotID),
		slog.Int("updated", result.Updated),
		slog.Int("failed", len(result.Failed)),
	)
}

// parseWallClock parses a "HH:MM" trigger time.
func parseWallClock(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid refresh time %q, want HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid refresh hour in %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid refresh minute in %q", value)
	}
	return hour, minute, nil
}
