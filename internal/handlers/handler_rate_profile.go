package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/hrforge/candidate_rates_service/internal/dto"
	"github.com/hrforge/candidate_rates_service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateProfileHandler handles HTTP requests for candidate rate profiles and
// their cached per-currency values.
type rateProfileHandler struct {
	rateCacheService portssvc.RateCacheSvcFacade
}

// newRateProfileHandler creates a new rateProfileHandler.
func newRateProfileHandler(rateCache portssvc.RateCacheSvcFacade) *rateProfileHandler {
	return &rateProfileHandler{rateCacheService: rateCache}
}

// registerRateProfileRoutes registers routes related to rate profiles.
func registerRateProfileRoutes(rg *gin.RouterGroup, rateCache portssvc.RateCacheSvcFacade) {
	h := newRateProfileHandler(rateCache)

	profiles := rg.Group("/rate-profiles")
	{
		profiles.POST("", h.createRateProfile)
		profiles.GET("/:profileID", h.getRateProfile)
		profiles.PUT("/:profileID/base-rate", h.setBaseRate)
		profiles.POST("/:profileID/recalculate", h.recalculateOne)
		profiles.POST("/recalculate-all", h.recalculateAll)
	}

	owners := rg.Group("/owners")
	{
		owners.POST("/:ownerID/rate-profiles/recalculate", h.recalculateForOwner)
	}
}

// handleRateProfileError maps service-layer errors to HTTP responses shared by
// the profile endpoints.
func (h *rateProfileHandler) handleRateProfileError(c *gin.Context, err error, logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidCurrency),
		errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNoRatesAvailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rates not yet available. Try refreshing rates."})
	case errors.Is(err, apperrors.ErrMissingRate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// createRateProfile godoc
// @Summary Create a candidate rate profile
// @Description Creates a rate profile and calculates its cached per-currency values from the active snapshot. The profile is created even when no rates are available yet; cached values stay empty until the next recalculation.
// @Tags rate-profiles
// @Accept json
// @Produce json
// @Param request body dto.CreateRateProfileRequest true "Rate profile details"
// @Success 201 {object} dto.RateProfileResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create profile"
// @Router /rate-profiles [post]
func (h *rateProfileHandler) createRateProfile(c *gin.Context) {
	var req dto.CreateRateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, err := h.rateCacheService.CreateProfile(c.Request.Context(), req)
	if err != nil {
		h.handleRateProfileError(c, err, "Failed to create rate profile")
		return
	}

	c.JSON(http.StatusCreated, dto.ToRateProfileResponse(profile))
}

// getRateProfile godoc
// @Summary Get a rate profile
// @Description Returns a rate profile with its cached per-currency values
// @Tags rate-profiles
// @Produce json
// @Param profileID path string true "Profile ID"
// @Success 200 {object} dto.RateProfileResponse
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /rate-profiles/{profileID} [get]
func (h *rateProfileHandler) getRateProfile(c *gin.Context) {
	profileID := c.Param("profileID")

	profile, err := h.rateCacheService.GetProfile(c.Request.Context(), profileID)
	if err != nil {
		h.handleRateProfileError(c, err, "Failed to get rate profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToRateProfileResponse(profile))
}

// setBaseRate godoc
// @Summary Set the base rate of a profile
// @Description Updates the profile's base amount, currency and period, then recalculates the cached values against the active snapshot
// @Tags rate-profiles
// @Accept json
// @Produce json
// @Param profileID path string true "Profile ID"
// @Param request body dto.SetBaseRateRequest true "New base rate"
// @Success 200 {object} dto.RateProfileResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /rate-profiles/{profileID}/base-rate [put]
func (h *rateProfileHandler) setBaseRate(c *gin.Context) {
	profileID := c.Param("profileID")

	var req dto.SetBaseRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, err := h.rateCacheService.SetBaseRate(c.Request.Context(), profileID, req)
	if err != nil {
		h.handleRateProfileError(c, err, "Failed to set base rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToRateProfileResponse(profile))
}

// recalculateOne godoc
// @Summary Recalculate one profile's cached values
// @Description Recomputes the cached per-currency values of a single profile from the active snapshot
// @Tags rate-profiles
// @Produce json
// @Param profileID path string true "Profile ID"
// @Success 200 {object} dto.RateProfileResponse
// @Failure 404 {object} map[string]string "Profile not found or no rates available"
// @Router /rate-profiles/{profileID}/recalculate [post]
func (h *rateProfileHandler) recalculateOne(c *gin.Context) {
	profileID := c.Param("profileID")

	profile, err := h.rateCacheService.RecomputeOne(c.Request.Context(), profileID)
	if err != nil {
		h.handleRateProfileError(c, err, "Failed to recalculate rate profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToRateProfileResponse(profile))
}

// recalculateAll godoc
// @Summary Recalculate every profile's cached values
// @Description Recomputes cached values for all profiles from the active snapshot. Individual failures are reported without aborting the rest.
// @Tags rate-profiles
// @Produce json
// @Success 200 {object} dto.BulkRecalcResponse
// @Failure 404 {object} map[string]string "No rates available"
// @Router /rate-profiles/recalculate-all [post]
func (h *rateProfileHandler) recalculateAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.rateCacheService.RecomputeAll(c.Request.Context())
	if err != nil {
		h.handleRateProfileError(c, err, "Bulk recalculation failed")
		return
	}

	logger.Info("Bulk recalculation finished",
		slog.Int("updated", result.Updated),
		slog.Int("failed", len(result.Failed)),
	)
	c.JSON(http.StatusOK, dto.ToBulkRecalcResponse(result))
}

// recalculateForOwner godoc
// @Summary Recalculate cached values for one owner's profiles
// @Description Recomputes cached values for every profile belonging to the given owner. Individual failures are reported without aborting the rest.
// @Tags rate-profiles
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Success 200 {object} dto.BulkRecalcResponse
// @Failure 404 {object} map[string]string "No rates available"
// @Router /owners/{ownerID}/rate-profiles/recalculate [post]
func (h *rateProfileHandler) recalculateForOwner(c *gin.Context) {
	ownerID := c.Param("ownerID")

	result, err := h.rateCacheService.RecomputeOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.handleRateProfileError(c, err, "Owner recalculation failed")
		return
	}

	c.JSON(http.StatusOK, dto.ToBulkRecalcResponse(result))
}
