package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/hrforge/candidate_rates_service/internal/dto"
	"github.com/hrforge/candidate_rates_service/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ratesHandler handles HTTP requests related to exchange rate snapshots and
// ad-hoc conversions.
type ratesHandler struct {
	snapshotService portssvc.RateSnapshotSvcFacade
	converter       portssvc.ConverterSvc
	stalenessMaxAge time.Duration
}

// newRatesHandler creates a new ratesHandler.
func newRatesHandler(snapshots portssvc.RateSnapshotSvcFacade, converter portssvc.ConverterSvc, stalenessMaxAge time.Duration) *ratesHandler {
	return &ratesHandler{
		snapshotService: snapshots,
		converter:       converter,
		stalenessMaxAge: stalenessMaxAge,
	}
}

// registerRatesRoutes registers routes related to rate snapshots and conversion.
func registerRatesRoutes(rg *gin.RouterGroup, snapshots portssvc.RateSnapshotSvcFacade, converter portssvc.ConverterSvc, stalenessMaxAge time.Duration, refreshLimiter gin.HandlerFunc) {
	h := newRatesHandler(snapshots, converter, stalenessMaxAge)

	rates := rg.Group("/rates")
	{
		rates.GET("/current", h.getCurrentRates)
		rates.GET("/history", h.getRatesHistory)
		rates.POST("/refresh", refreshLimiter, h.refreshRates)
		rates.POST("/convert", h.convertCurrency)
	}
}

// getCurrentRates godoc
// @Summary Get current exchange rates
// @Description Returns the active rate snapshot together with an advisory staleness flag
// @Tags rates
// @Produce json
// @Success 200 {object} dto.RateSnapshotResponse
// @Failure 404 {object} map[string]string "No rates have been fetched yet"
// @Failure 500 {object} map[string]string "Failed to retrieve rates"
// @Router /rates/current [get]
func (h *ratesHandler) getCurrentRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	snapshot, stale, err := h.snapshotService.GetActiveOrStale(c.Request.Context(), h.stalenessMaxAge)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRatesAvailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rates not yet available. Try refreshing rates."})
			return
		}
		logger.Error("Failed to get active snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRateSnapshotResponse(snapshot, stale))
}

// getRatesHistory godoc
// @Summary List recent fetch attempts
// @Description Returns the most recent snapshot rows, newest first, including failed fetches
// @Tags rates
// @Produce json
// @Param limit query int false "Maximum rows to return" default(20)
// @Success 200 {array} dto.RateSnapshotResponse
// @Failure 500 {object} map[string]string "Failed to retrieve history"
// @Router /rates/history [get]
func (h *ratesHandler) getRatesHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		Limit int `form:"limit,default=20" binding:"omitempty,min=1,max=200"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	snapshots, err := h.snapshotService.ListHistory(c.Request.Context(), query.Limit)
	if err != nil {
		logger.Error("Failed to list snapshot history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateSnapshotResponse(snapshots))
}

// refreshRates godoc
// @Summary Refresh exchange rates now
// @Description Fetches the daily rates from the external source and records the outcome. On failure the last good rates stay authoritative.
// @Tags rates
// @Produce json
// @Success 200 {object} dto.RateSnapshotResponse
// @Failure 502 {object} map[string]string "Rate source failed; no new active snapshot"
// @Failure 429 {object} map[string]string "Too many refresh requests"
// @Router /rates/refresh [post]
func (h *ratesHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received manual rate refresh request")

	snapshot, err := h.snapshotService.Refresh(c.Request.Context())
	if err != nil {
		logger.Warn("Manual refresh did not produce new active rates", slog.String("error", err.Error()))
		resp := gin.H{"error": "Refresh did not produce new active rates"}
		if snapshot != nil && snapshot.ErrorDetail != nil {
			resp["detail"] = *snapshot.ErrorDetail
		}
		c.JSON(http.StatusBadGateway, resp)
		return
	}

	logger.Info("Manual refresh succeeded", slog.String("snapshot_id", snapshot.SnapshotID))
	c.JSON(http.StatusOK, dto.ToRateSnapshotResponse(snapshot, false))
}

// convertCurrency godoc
// @Summary Convert an amount between supported currencies
// @Description Converts via the base currency using the active snapshot
// @Tags rates
// @Accept json
// @Produce json
// @Param request body dto.ConvertRequest true "Conversion request"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid amount or unsupported currency"
// @Failure 404 {object} map[string]string "No rates available"
// @Failure 422 {object} map[string]string "Snapshot lacks a required rate"
// @Router /rates/convert [post]
func (h *ratesHandler) convertCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.snapshotService.GetActive(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRatesAvailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rates not yet available. Try refreshing rates."})
			return
		}
		logger.Error("Failed to get active snapshot for conversion", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rates"})
		return
	}

	converted, err := h.converter.Convert(req.Amount, domain.CurrencyCode(req.FromCurrency), domain.CurrencyCode(req.ToCurrency), snapshot)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCurrency), errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrMissingRate):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Conversion failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Conversion failed"})
		}
		return
	}

	rateUsed := decimal.Zero
	if req.Amount.IsPositive() {
		rateUsed = converted.Div(req.Amount).Round(4)
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		OriginalAmount:  req.Amount,
		FromCurrency:    req.FromCurrency,
		ConvertedAmount: converted.Round(2),
		ToCurrency:      req.ToCurrency,
		RateUsed:        rateUsed,
		SnapshotID:      snapshot.SnapshotID,
		AsOf:            snapshot.FetchedAt,
	})
}
