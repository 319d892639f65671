package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"golang-adyen-checkout/internal/services/payments/providers"
	"golang-adyen-checkout/internal/services/payments/store"
)

// apiError is an error with a fixed HTTP rendering.
type apiError struct {
	Status  int
	Code    string
	Message string
	Extra   gin.H
}

func (e *apiError) Error() string { return e.Message }

func badRequest(code, message string) error {
	return &apiError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// ErrorHandler renders the last error pushed with c.Error as JSON.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var (
			vendorErr     *providers.VendorError
			validationErr *providers.ValidationError
			api           *apiError
		)
		switch {
		case errors.As(err, &api):
			body := gin.H{"error": api.Message, "code": api.Code}
			for k, v := range api.Extra {
				body[k] = v
			}
			c.JSON(api.Status, body)
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "code": validationErr.Code})
		case errors.As(err, &vendorErr):
			c.JSON(vendorErr.StatusCode, gin.H{"message": vendorErr.Message, "errorCode": vendorErr.ErrorCode})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "NOT_FOUND"})
		default:
			slog.Error("unhandled request error", "path", c.Request.URL.Path, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "INTERNAL_ERROR"})
		}
	}
}
