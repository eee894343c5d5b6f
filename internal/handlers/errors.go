package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/snacks-api/internal/errors"
	"github.com/yukikurage/snacks-api/internal/services"
)

// respondServiceError maps service results onto API errors. input is echoed
// back only on validation failures.
func respondServiceError(c *gin.Context, err error, input interface{}) {
	if verrs, ok := services.AsValidationErrors(err); ok {
		apierrors.ValidationFailed(c, verrs.Fields, input)
		return
	}

	switch {
	case errors.Is(err, services.ErrArticleNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTagNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidParent),
		errors.Is(err, services.ErrNotAQuestion):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrInvalidVoteDirection):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMissingIdentity):
		apierrors.Unauthorized(c, "")
	default:
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		apierrors.InternalError(c, "")
	}
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}
