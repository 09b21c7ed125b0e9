package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyflow/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ValidationFailed reports request fields that failed validation.
func ValidationFailed(c *gin.Context, details any) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// FromError writes the error envelope for err. Errors outside the domain
// taxonomy and persistence failures are logged and reported as 500 without
// leaking internals.
func FromError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindPersistence {
		_ = c.Error(err)
		log.Printf("level=error msg=\"request failed\" method=%s path=%s error=%q", c.Request.Method, c.Request.URL.Path, err.Error())
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	if de.Details != nil {
		ErrorWithDetails(c, StatusFor(de.Kind), de.Code, de.Message, de.Details)
		return
	}
	Error(c, StatusFor(de.Kind), de.Code, de.Message)
}
