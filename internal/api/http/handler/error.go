package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/accounts-server/internal/model"
)

// respondError maps an error kind to a stable status and message. Unknown
// errors collapse to 500 with a generic message.
func respondError(c *gin.Context, err error) {
	status, message := mapError(err)
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

func mapError(err error) (int, string) {
	var status int
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	// The original API reports duplicates as a plain bad request, so the
	// conflict kind stays internal and flattens to 400 at the boundary.
	case errors.Is(err, model.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		return http.StatusInternalServerError, "internal server error"
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return status, domainErr.Error()
	}
	return status, http.StatusText(status)
}
