package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondAppError maps a service error onto the HTTP status and message the
// API contract promises for it. Anything outside the known set is a 500 with
// the detail kept out of the response body.
func respondAppError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials", err)
	case apperrors.Is(err, apperrors.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
	case apperrors.Is(err, apperrors.ErrForbidden), apperrors.Is(err, apperrors.ErrInvalidRole):
		respondError(c, http.StatusForbidden, "Forbidden", err)
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found", err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrInvalidState):
		respondError(c, http.StatusUnprocessableEntity, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
