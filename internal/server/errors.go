package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/gendoc/internal/document/domain"
	generatorservice "github.com/smallbiznis/gendoc/internal/generator/service"
	sequencedomain "github.com/smallbiznis/gendoc/internal/sequence/domain"
	"github.com/smallbiznis/gendoc/internal/validate"
)

type errorResponse struct {
	Error string `json:"error"`
}

// abortWithError maps domain errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, documentdomain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, documentdomain.ErrDuplicateNumber):
		status = http.StatusConflict
	case errors.Is(err, documentdomain.ErrInvalidType),
		errors.Is(err, sequencedomain.ErrUnknownDocumentType),
		errors.Is(err, validate.ErrInvalidInput),
		errors.Is(err, generatorservice.ErrEmptyBatch):
		status = http.StatusBadRequest
	case errors.Is(err, sequencedomain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}
