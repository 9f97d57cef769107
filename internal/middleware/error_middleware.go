package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/pkg/apperrors"
	"github.com/evrim/opphub/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. All handlers
// funnel their service errors through here so the status mapping lives in
// one place.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrOpportunityNotFound),
		errors.Is(err, apperrors.ErrSchoolNotFound),
		errors.Is(err, apperrors.ErrNewsPostNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, messageOrDefault(err, "Resource not found"))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	case errors.Is(err, apperrors.ErrCapacityExceeded):
		detail := dto.NewErrorDetail(dto.ErrorCodeCapacityExceeded, "No spaces left on this opportunity")
		if custom := asCustomError(err); custom != nil && custom.Details != nil {
			detail = detail.WithDetails(custom.Details)
		}
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrSchoolHasRelations):
		respondError(c, http.StatusConflict, dto.ErrorCodeConflict, "School has associated data and cannot be deleted")

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")

	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeConflict, messageOrDefault(err, "Conflict"))

	case errors.Is(err, apperrors.ErrTransientFailure):
		respondError(c, http.StatusServiceUnavailable, dto.ErrorCodeTransientFailure, "Temporarily unable to complete the request, please retry")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case errors.Is(err, apperrors.ErrAccountDisabled):
		respondError(c, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, messageOrDefault(err, "Invalid request"))

	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func asCustomError(err error) *apperrors.CustomError {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		return custom
	}
	return nil
}

func messageOrDefault(err error, fallback string) string {
	if custom := asCustomError(err); custom != nil && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
