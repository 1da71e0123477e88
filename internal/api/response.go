package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a3tai/cbs-offer-importer/internal/importer"
	pdferrors "github.com/a3tai/cbs-offer-importer/internal/pdf/errors"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapError translates service errors to HTTP status codes and error codes.
func MapError(err error) (status int, code string) {
	var pe *pdferrors.PDFError
	switch {
	case errors.Is(err, importer.ErrPathNotAllowed):
		return http.StatusForbidden, "PATH_NOT_ALLOWED"
	case errors.Is(err, importer.ErrNoOffers):
		return http.StatusNotFound, "NO_OFFERS"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CANCELED"
	case errors.As(err, &pe) && !pe.Type.IsRecoverable():
		return http.StatusInternalServerError, "WORKBOOK_ERROR"
	case errors.As(err, &pe):
		return http.StatusUnprocessableEntity, "EXTRACTION_FAILED"
	default:
		return http.StatusBadRequest, "INVALID_REQUEST"
	}
}

// HandleError maps a service error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code := MapError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, err.Error())
}
