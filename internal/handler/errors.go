package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"content-generator/internal/model"
)

// Коды ошибок API.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeSchemaNotFound = "schema_not_found"
	ErrCodeBatchNotFound  = "batch_not_found"
	ErrCodeInternal       = "internal_error"
)

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func handleServiceError(c *gin.Context, err error) {
	var status int
	var resp ErrorResponse

	switch {
	case errors.Is(err, model.ErrInvalidBatchRequest):
		status = http.StatusBadRequest
		resp = ErrorResponse{Code: ErrCodeBadRequest, Message: err.Error()}
	case errors.Is(err, model.ErrSchemaNotFound):
		status = http.StatusNotFound
		resp = ErrorResponse{Code: ErrCodeSchemaNotFound, Message: err.Error()}
	case errors.Is(err, model.ErrBatchNotFound):
		status = http.StatusNotFound
		resp = ErrorResponse{Code: ErrCodeBatchNotFound, Message: "Batch not found"}
	default:
		_ = c.Error(err)
		status = http.StatusInternalServerError
		resp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(status, resp)
}
