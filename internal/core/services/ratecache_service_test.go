package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	portsrepo "github.com/hrforge/candidate_rates_service/internal/core/ports/repositories"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/hrforge/candidate_rates_service/internal/core/services"
	"github.com/hrforge/candidate_rates_service/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateProfileRepository ---
type MockRateProfileRepository struct {
	mock.Mock
}

func (m *MockRateProfileRepository) FindRateProfileByID(ctx context.Context, profileID string) (*domain.RateProfile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateProfile), args.Error(1)
}

func (m *MockRateProfileRepository) ListRateProfiles(ctx context.Context, ownerID *string) ([]domain.RateProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateProfile), args.Error(1)
}

func (m *MockRateProfileRepository) SaveRateProfile(ctx context.Context, profile domain.RateProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockRateProfileRepository) UpdateBaseRate(ctx context.Context, profileID string, amount decimal.Decimal, currency domain.CurrencyCode, period domain.RatePeriod, updatedAt time.Time) error {
	args := m.Called(ctx, profileID, amount, currency, period, updatedAt)
	return args.Error(0)
}

func (m *MockRateProfileRepository) UpdateCachedRates(ctx context.Context, profileID string, rates domain.CachedRates, snapshotID string, calculatedAt time.Time) error {
	args := m.Called(ctx, profileID, rates, snapshotID, calculatedAt)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portsrepo.RateProfileRepositoryFacade = (*MockRateProfileRepository)(nil)

// --- Test Suite ---
type RateCacheServiceTestSuite struct {
	suite.Suite
	mockProfileRepo  *MockRateProfileRepository
	mockSnapshotRepo *MockSnapshotRepository
	service          portssvc.RateCacheSvcFacade
	snapshot         *domain.RateSnapshot
}

func (suite *RateCacheServiceTestSuite) SetupTest() {
	suite.mockProfileRepo = new(MockRateProfileRepository)
	suite.mockSnapshotRepo = new(MockSnapshotRepository)
	// The real conversion engine is stateless, so the cache tests exercise it
	// directly instead of mocking it.
	suite.service = services.NewRateCacheService(suite.mockProfileRepo, suite.mockSnapshotRepo, services.NewConversionService())

	usd := decimal.RequireFromString("95.50")
	eur := decimal.RequireFromString("103.25")
	byn := decimal.RequireFromString("29.80")
	suite.snapshot = &domain.RateSnapshot{
		SnapshotID: uuid.NewString(),
		USDRate:    &usd,
		EURRate:    &eur,
		BYNRate:    &byn,
		FetchedAt:  time.Now(),
		Active:     true,
		Status:     domain.FetchSuccess,
	}
}

func monthlyUSDProfile() domain.RateProfile {
	now := time.Now()
	return domain.RateProfile{
		ProfileID:    uuid.NewString(),
		OwnerID:      uuid.NewString(),
		CandidateID:  uuid.NewString(),
		BaseAmount:   decimal.NewFromInt(3000),
		BaseCurrency: domain.USD,
		Period:       domain.PeriodMonthly,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}

// --- Test Cases ---

func (suite *RateCacheServiceTestSuite) TestCreateProfile_CalculatesCacheFromActiveSnapshot() {
	ctx := context.Background()
	req := dto.CreateRateProfileRequest{
		OwnerID:      uuid.NewString(),
		CandidateID:  uuid.NewString(),
		BaseAmount:   decimal.NewFromInt(3000),
		BaseCurrency: "USD",
		RatePeriod:   "monthly",
	}

	stored := monthlyUSDProfile()
	suite.mockProfileRepo.On("SaveRateProfile", ctx, mock.AnythingOfType("domain.RateProfile")).Return(nil).Once()
	suite.mockProfileRepo.On("FindRateProfileByID", ctx, mock.AnythingOfType("string")).Return(&stored, nil).Once()
	suite.mockSnapshotRepo.On("FindActive", ctx).Return(suite.snapshot, nil).Once()

	var cached domain.CachedRates
	suite.mockProfileRepo.On("UpdateCachedRates", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("domain.CachedRates"), suite.snapshot.SnapshotID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			cached = args.Get(2).(domain.CachedRates)
		}).
		Return(nil).Once()

	profile, err := suite.service.CreateProfile(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(profile)
	suite.Equal(stored.ProfileID, profile.ProfileID)

	suite.True(cached.RUB.Equal(decimal.RequireFromString("286500.00")), "RUB, got %s", cached.RUB)
	suite.True(cached.USD.Equal(decimal.NewFromInt(3000)), "USD must be the base amount verbatim, got %s", cached.USD)
	suite.True(cached.EUR.Equal(decimal.RequireFromString("2774.82")), "EUR, got %s", cached.EUR)
	suite.True(cached.BYN.Equal(decimal.RequireFromString("9614.09")), "BYN, got %s", cached.BYN)

	suite.Require().NotNil(profile.SnapshotID)
	suite.Equal(suite.snapshot.SnapshotID, *profile.SnapshotID)
	suite.Require().NotNil(profile.RatesCalculatedAt)
	suite.mockProfileRepo.AssertExpectations(suite.T())
}

func (suite *RateCacheServiceTestSuite) TestCreateProfile_NoRatesYetStillCreates() {
	ctx := context.Background()
	req := dto.CreateRateProfileRequest{
		OwnerID:      uuid.NewString(),
		CandidateID:  uuid.NewString(),
		BaseAmount:   decimal.NewFromInt(50),
		BaseCurrency: "EUR",
		RatePeriod:   "hourly",
	}

	stored := monthlyUSDProfile()
	suite.mockProfileRepo.On("SaveRateProfile", ctx, mock.AnythingOfType("domain.RateProfile")).Return(nil).Once()
	suite.mockProfileRepo.On("FindRateProfileByID", ctx, mock.AnythingOfType("string")).Return(&stored, nil).Once()
	suite.mockSnapshotRepo.On("FindActive", ctx).
		Return(nil, apperrors.NewAppError(404, "no active snapshot", apperrors.ErrNoRatesAvailable)).Once()

	profile, err := suite.service.CreateProfile(ctx, req)

	suite.Require().NoError(err, "profile creation must survive an empty rate store")
	suite.Require().NotNil(profile)
	suite.Nil(profile.RateRUB)
	suite.Nil(profile.SnapshotID)
	suite.mockProfileRepo.AssertNotCalled(suite.T(), "UpdateCachedRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestCreateProfile_RejectsBadInput() {
	ctx := context.Background()

	_, err := suite.service.CreateProfile(ctx, dto.CreateRateProfileRequest{
		OwnerID: "o", CandidateID: "c",
		BaseAmount: decimal.NewFromInt(-100), BaseCurrency: "USD", RatePeriod: "monthly",
	})
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.service.CreateProfile(ctx, dto.CreateRateProfileRequest{
		OwnerID: "o", CandidateID: "c",
		BaseAmount: decimal.NewFromInt(100), BaseCurrency: "GBP", RatePeriod: "monthly",
	})
	suite.ErrorIs(err, apperrors.ErrInvalidCurrency)

	_, err = suite.service.CreateProfile(ctx, dto.CreateRateProfileRequest{
		OwnerID: "o", CandidateID: "c",
		BaseAmount: decimal.NewFromInt(100), BaseCurrency: "USD", RatePeriod: "weekly",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockProfileRepo.AssertNotCalled(suite.T(), "SaveRateProfile", mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestSetBaseRate_UpdatesAndRecomputes() {
	ctx := context.Background()
	existing := monthlyUSDProfile()
	req := dto.SetBaseRateRequest{
		Amount:     decimal.NewFromInt(3500),
		Currency:   "USD",
		RatePeriod: "monthly",
	}

	updated := existing
	updated.BaseAmount = req.Amount

	suite.mockProfileRepo.On("UpdateBaseRate", ctx, existing.ProfileID, req.Amount, domain.USD, domain.PeriodMonthly, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockProfileRepo.On("FindRateProfileByID", ctx, existing.ProfileID).Return(&updated, nil).Once()
	suite.mockSnapshotRepo.On("FindActive", ctx).Return(suite.snapshot, nil).Once()
	suite.mockProfileRepo.On("UpdateCachedRates", ctx, existing.ProfileID, mock.AnythingOfType("domain.CachedRates"), suite.snapshot.SnapshotID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	profile, err := suite.service.SetBaseRate(ctx, existing.ProfileID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(profile.RateRUB)
	suite.True(profile.RateRUB.Equal(decimal.RequireFromString("334250.00")), "3500 USD at 95.50, got %s", profile.RateRUB)
	suite.mockProfileRepo.AssertExpectations(suite.T())
}

func (suite *RateCacheServiceTestSuite) TestSetBaseRate_RejectsBadInputWithoutWriting() {
	ctx := context.Background()

	_, err := suite.service.SetBaseRate(ctx, uuid.NewString(), dto.SetBaseRateRequest{
		Amount: decimal.NewFromInt(100), Currency: "XXX", RatePeriod: "monthly",
	})

	suite.ErrorIs(err, apperrors.ErrInvalidCurrency)
	suite.mockProfileRepo.AssertNotCalled(suite.T(), "UpdateBaseRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestRecomputeOne_UnknownProfile() {
	ctx := context.Background()
	profileID := uuid.NewString()
	suite.mockProfileRepo.On("FindRateProfileByID", ctx, profileID).
		Return(nil, apperrors.NewNotFoundError("rate profile not found")).Once()

	_, err := suite.service.RecomputeOne(ctx, profileID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RateCacheServiceTestSuite) TestRecomputeAll_ToleratesPerProfileFailures() {
	ctx := context.Background()

	// Ten profiles, two of which carry a base currency the engine rejects.
	profiles := make([]domain.RateProfile, 0, 10)
	for i := 0; i < 8; i++ {
		profiles = append(profiles, monthlyUSDProfile())
	}
	badA := monthlyUSDProfile()
	badA.BaseCurrency = "GBP"
	badB := monthlyUSDProfile()
	badB.BaseCurrency = "CHF"
	profiles = append(profiles, badA, badB)

	suite.mockSnapshotRepo.On("FindActive", ctx).Return(suite.snapshot, nil).Once()
	suite.mockProfileRepo.On("ListRateProfiles", ctx, (*string)(nil)).Return(profiles, nil).Once()
	suite.mockProfileRepo.On("UpdateCachedRates", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("domain.CachedRates"), suite.snapshot.SnapshotID, mock.AnythingOfType("time.Time")).Return(nil).Times(8)

	result, err := suite.service.RecomputeAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(8, result.Updated)
	suite.Require().Len(result.Failed, 2)
	failedIDs := []string{result.Failed[0].ProfileID, result.Failed[1].ProfileID}
	suite.Contains(failedIDs, badA.ProfileID)
	suite.Contains(failedIDs, badB.ProfileID)
	suite.NotEmpty(result.Failed[0].Reason)
	suite.mockProfileRepo.AssertExpectations(suite.T())
}

func (suite *RateCacheServiceTestSuite) TestRecomputeAll_NoActiveSnapshotFails() {
	ctx := context.Background()
	suite.mockSnapshotRepo.On("FindActive", ctx).
		Return(nil, apperrors.NewAppError(404, "no active snapshot", apperrors.ErrNoRatesAvailable)).Once()

	_, err := suite.service.RecomputeAll(ctx)

	suite.ErrorIs(err, apperrors.ErrNoRatesAvailable)
	suite.mockProfileRepo.AssertNotCalled(suite.T(), "ListRateProfiles", mock.Anything, mock.Anything)
}

func (suite *RateCacheServiceTestSuite) TestRecomputeOwner_ScopesToOwner() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	owned := monthlyUSDProfile()
	owned.OwnerID = ownerID

	suite.mockSnapshotRepo.On("FindActive", ctx).Return(suite.snapshot, nil).Once()
	suite.mockProfileRepo.On("ListRateProfiles", ctx, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == ownerID
	})).Return([]domain.RateProfile{owned}, nil).Once()
	suite.mockProfileRepo.On("UpdateCachedRates", ctx, owned.ProfileID, mock.AnythingOfType("domain.CachedRates"), suite.snapshot.SnapshotID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.RecomputeOwner(ctx, ownerID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Updated)
	suite.Empty(result.Failed)
}

func TestRateCacheServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateCacheServiceTestSuite))
}
