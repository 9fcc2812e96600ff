package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apierrors "github.com/hmuro/productivity-tracker/internal/errors"
	"github.com/hmuro/productivity-tracker/internal/services"
)

// respondServiceError maps service-layer errors onto API responses.
// Storage faults fall through to a generic 500 and are logged; their
// detail never reaches the caller.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var terr *services.InvalidTransitionError

	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, "Validation failed",
			gin.H{"field": verr.Field, "message": verr.Message})
	case errors.As(err, &terr):
		apierrors.InvalidTransition(c, string(terr.From), string(terr.To))
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already exists")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		apierrors.InternalError(c, "")
	}
}
