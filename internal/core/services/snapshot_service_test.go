package services_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/adapters/ratesource"
	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	portsrepo "github.com/hrforge/candidate_rates_service/internal/core/ports/repositories"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/hrforge/candidate_rates_service/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SnapshotRepository ---
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) FindActive(ctx context.Context) (*domain.RateSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]domain.RateSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) RecordSuccess(ctx context.Context, snapshot domain.RateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) RecordFailure(ctx context.Context, snapshot domain.RateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portsrepo.SnapshotRepositoryFacade = (*MockSnapshotRepository)(nil)

// --- Mock Fetcher ---
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchDaily(ctx context.Context) (ratesource.Quotes, error) {
	args := m.Called(ctx)
	return args.Get(0).(ratesource.Quotes), args.Error(1)
}

var _ ratesource.Fetcher = (*MockFetcher)(nil)

// --- Test Suite ---
type SnapshotServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockSnapshotRepository
	mockFetcher *MockFetcher
	service     portssvc.RateSnapshotSvcFacade
}

func (suite *SnapshotServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSnapshotRepository)
	suite.mockFetcher = new(MockFetcher)
	suite.service = services.NewSnapshotService(suite.mockRepo, suite.mockFetcher, slog.Default())
}

func fullQuotes() ratesource.Quotes {
	usd := decimal.RequireFromString("95.50")
	eur := decimal.RequireFromString("103.25")
	byn := decimal.RequireFromString("29.80")
	return ratesource.Quotes{
		USD:       &usd,
		EUR:       &eur,
		BYN:       &byn,
		FetchedAt: time.Now(),
	}
}

// --- Test Cases ---

func (suite *SnapshotServiceTestSuite) TestRefresh_SuccessActivatesSnapshot() {
	ctx := context.Background()
	quotes := fullQuotes()

	suite.mockFetcher.On("FetchDaily", ctx).Return(quotes, nil).Once()

	var recorded domain.RateSnapshot
	suite.mockRepo.On("RecordSuccess", ctx, mock.AnythingOfType("domain.RateSnapshot")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(domain.RateSnapshot)
		}).
		Return(nil).Once()

	snapshot, err := suite.service.Refresh(ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(snapshot)
	suite.NotEmpty(snapshot.SnapshotID)
	suite.True(snapshot.Active)
	suite.Equal(domain.FetchSuccess, snapshot.Status)
	suite.Nil(snapshot.ErrorDetail)
	suite.Require().NotNil(snapshot.USDRate)
	suite.True(snapshot.USDRate.Equal(*quotes.USD))

	suite.True(recorded.Active, "the recorded row must be the activated one")
	suite.Equal(snapshot.SnapshotID, recorded.SnapshotID)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockFetcher.AssertExpectations(suite.T())
}

func (suite *SnapshotServiceTestSuite) TestRefresh_SourceFailureRecordsAuditRow() {
	ctx := context.Background()
	fetchErr := fmt.Errorf("%w: connection refused", apperrors.ErrSourceUnreachable)

	suite.mockFetcher.On("FetchDaily", ctx).Return(ratesource.Quotes{}, fetchErr).Once()

	var recorded domain.RateSnapshot
	suite.mockRepo.On("RecordFailure", ctx, mock.AnythingOfType("domain.RateSnapshot")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(domain.RateSnapshot)
		}).
		Return(nil).Once()

	snapshot, err := suite.service.Refresh(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSourceUnreachable)
	suite.Require().NotNil(snapshot)
	suite.False(snapshot.Active)
	suite.Equal(domain.FetchError, snapshot.Status)
	suite.Require().NotNil(snapshot.ErrorDetail)
	suite.Contains(*snapshot.ErrorDetail, "connection refused")

	suite.False(recorded.Active, "a failed fetch must never be activated")
	suite.Nil(recorded.USDRate)
	suite.mockRepo.AssertCalled(suite.T(), "RecordFailure", ctx, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "RecordSuccess", mock.Anything, mock.Anything)
}

func (suite *SnapshotServiceTestSuite) TestRefresh_PartialRatesRecordedAsFailureWithRecoveredValues() {
	ctx := context.Background()
	quotes := fullQuotes()
	quotes.BYN = nil
	fetchErr := fmt.Errorf("%w: missing BYN", apperrors.ErrPartialRates)

	suite.mockFetcher.On("FetchDaily", ctx).Return(quotes, fetchErr).Once()

	var recorded domain.RateSnapshot
	suite.mockRepo.On("RecordFailure", ctx, mock.AnythingOfType("domain.RateSnapshot")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(domain.RateSnapshot)
		}).
		Return(nil).Once()

	snapshot, err := suite.service.Refresh(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialRates)
	suite.Require().NotNil(snapshot)
	suite.Equal(domain.FetchError, snapshot.Status)

	// The audit row keeps what was recovered; the missing rate stays absent.
	suite.Require().NotNil(recorded.USDRate)
	suite.Require().NotNil(recorded.EURRate)
	suite.Nil(recorded.BYNRate)
}

func (suite *SnapshotServiceTestSuite) TestRefresh_AuditRowFailureStillReportsFetchError() {
	ctx := context.Background()
	fetchErr := fmt.Errorf("%w: empty document", apperrors.ErrSourceUnparseable)

	suite.mockFetcher.On("FetchDaily", ctx).Return(ratesource.Quotes{}, fetchErr).Once()
	suite.mockRepo.On("RecordFailure", ctx, mock.Anything).Return(fmt.Errorf("db down")).Once()

	_, err := suite.service.Refresh(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSourceUnparseable, "the typed source failure must win over the audit write error")
}

func (suite *SnapshotServiceTestSuite) TestGetActive_NoSnapshot() {
	ctx := context.Background()
	notFound := apperrors.NewAppError(404, "no active snapshot", apperrors.ErrNoRatesAvailable)
	suite.mockRepo.On("FindActive", ctx).Return(nil, notFound).Once()

	_, err := suite.service.GetActive(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoRatesAvailable)
}

func (suite *SnapshotServiceTestSuite) TestGetActiveOrStale_FlagsOldSnapshot() {
	ctx := context.Background()
	usd := decimal.RequireFromString("95.50")
	old := &domain.RateSnapshot{
		SnapshotID: uuid.NewString(),
		USDRate:    &usd,
		FetchedAt:  time.Now().Add(-72 * time.Hour),
		Active:     true,
		Status:     domain.FetchSuccess,
	}
	suite.mockRepo.On("FindActive", ctx).Return(old, nil).Twice()

	_, stale, err := suite.service.GetActiveOrStale(ctx, 48*time.Hour)
	suite.Require().NoError(err)
	suite.True(stale)

	_, stale, err = suite.service.GetActiveOrStale(ctx, 100*time.Hour)
	suite.Require().NoError(err)
	suite.False(stale)
}

func (suite *SnapshotServiceTestSuite) TestListHistory_NilBecomesEmptySlice() {
	ctx := context.Background()
	suite.mockRepo.On("ListSnapshots", ctx, 20).Return([]domain.RateSnapshot(nil), nil).Once()

	history, err := suite.service.ListHistory(ctx, 20)

	suite.Require().NoError(err)
	suite.NotNil(history)
	suite.Empty(history)
}

func TestSnapshotServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotServiceTestSuite))
}
