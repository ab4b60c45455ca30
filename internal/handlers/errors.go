package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/apperrors"
	"golang.org/x/exp/slog"
)

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an infrastructure failure: it is logged and
// reported as a generic internal error without leaking storage details.
func respondError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindAlreadyUsed, apperrors.KindExpired, apperrors.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessage(err)})
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": errMessage(err)})
	case apperrors.KindConfiguration, apperrors.KindGeneration:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errMessage(err)})
	default:
		slog.Error("Unexpected error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func errMessage(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
