package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/app/services"
	"github.com/evrim/opphub/internal/middleware"
)

// PreferenceController handles a student's saved listing filters
type PreferenceController struct {
	preferenceService services.PreferenceService
}

// NewPreferenceController creates a new PreferenceController
func NewPreferenceController(preferenceService services.PreferenceService) *PreferenceController {
	return &PreferenceController{preferenceService: preferenceService}
}

// GetPreferences retrieves the caller's saved preferences
// @Summary Get preferences
// @Description Retrieves the caller's saved listing filters; an empty set when none were saved
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse} "Preferences retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /preferences [get]
func (c *PreferenceController) GetPreferences(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	prefs, err := c.preferenceService.Get(ctx, user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(prefs))
}

// UpsertPreferences replaces the caller's saved preferences
// @Summary Save preferences
// @Description Replaces the caller's listing filters whole; there is no partial merge
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertPreferencesRequest true "Preferences to save"
// @Success 200 {object} dto.APIResponse{data=dto.PreferencesResponse} "Preferences saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /preferences [put]
func (c *PreferenceController) UpsertPreferences(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.UpsertPreferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid preferences data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	prefs, err := c.preferenceService.Upsert(ctx, user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(prefs))
}
