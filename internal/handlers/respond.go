package handlers

import (
	"errors"
	"net/http"
	"strings"

	"client-registry/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// respondError maps a service error onto its HTTP status. Unclassified errors
// are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var code int
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrUniqueness):
		code = http.StatusConflict
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:   http.StatusText(http.StatusInternalServerError),
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: strings.ReplaceAll(err.Error(), "\n", ": "),
		Code:    code,
	})
}
