package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeBadRequest          ErrorType = "BAD_REQUEST"
	ErrorTypeValidation          ErrorType = "VALIDATION_ERROR"
	ErrorTypeUnauthorized        ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden           ErrorType = "FORBIDDEN"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeQuotaExceeded       ErrorType = "QUOTA_EXCEEDED"
	ErrorTypeRemoteUnavailable   ErrorType = "REMOTE_UNAVAILABLE"
	ErrorTypeScoreParse          ErrorType = "SCORE_PARSE_ERROR"
	ErrorTypeEmptyPlan           ErrorType = "EMPTY_PLAN_ERROR"
	ErrorTypeLedgerUnavailable   ErrorType = "LEDGER_UNAVAILABLE"
	ErrorTypeInternalServerError ErrorType = "INTERNAL_SERVER_ERROR"
)

// CustomError represents a custom error with associated HTTP status code and type
type CustomError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Internal   error
}

// Error implements the error interface
func (e *CustomError) Error() string {
	return e.Message
}

// newError creates a new CustomError
func newError(errType ErrorType, message string, statusCode int, internal error) *CustomError {
	return &CustomError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// New400Error creates a new bad request error
func New400Error(message string) *CustomError {
	return newError(ErrorTypeBadRequest, message, http.StatusBadRequest, nil)
}

// NewValidationError creates a new local validation error (no I/O was attempted)
func NewValidationError(message string) *CustomError {
	return newError(ErrorTypeValidation, message, http.StatusBadRequest, nil)
}

// New401Error creates a new unauthorized error
func New401Error() *CustomError {
	return newError(ErrorTypeUnauthorized, "Unauthorized access", http.StatusUnauthorized, nil)
}

// New403Error creates a new forbidden error
func New403Error() *CustomError {
	return newError(ErrorTypeForbidden, "Access forbidden", http.StatusForbidden, nil)
}

// New404Error creates a new not found error
func New404Error(message string) *CustomError {
	return newError(ErrorTypeNotFound, message, http.StatusNotFound, nil)
}

// NewQuotaExceededError signals that the account's scan limit for the
// current cycle is used up. Distinct from transient failures so the
// client can show the top-up flow.
func NewQuotaExceededError() *CustomError {
	return newError(ErrorTypeQuotaExceeded, "Scan limit reached", http.StatusForbidden, nil)
}

// NewRemoteUnavailableError hides the provider failure behind a fixed
// user-facing message; the internal error is logged, never returned.
func NewRemoteUnavailableError(internal error) *CustomError {
	return newError(ErrorTypeRemoteUnavailable, "Analysis service is currently unavailable. Please try again.", http.StatusBadGateway, internal)
}

// NewScoreParseError reports an analysis response that contained no valid score
func NewScoreParseError(internal error) *CustomError {
	return newError(ErrorTypeScoreParse, "Could not read a rating from the analysis. Please try again.", http.StatusBadGateway, internal)
}

// NewEmptyPlanError reports a generation response that yielded no plan sections
func NewEmptyPlanError(internal error) *CustomError {
	return newError(ErrorTypeEmptyPlan, "The generated diet plan was empty. Please try again.", http.StatusBadGateway, internal)
}

// NewLedgerUnavailableError reports a usage persistence failure
func NewLedgerUnavailableError(internal error) *CustomError {
	return newError(ErrorTypeLedgerUnavailable, "Usage tracking is currently unavailable. Please try again.", http.StatusServiceUnavailable, internal)
}

// New500Error creates a new internal server error
func New500Error(internal error) *CustomError {
	return newError(ErrorTypeInternalServerError, "An unexpected error occurred", http.StatusInternalServerError, internal)
}

// HandleError handles the custom error and sends an appropriate JSON response
func HandleError(c *gin.Context, err error) {
	var customErr *CustomError
	var ok bool

	if customErr, ok = err.(*CustomError); !ok {
		customErr = New500Error(err)
	}

	// Internal detail stays server-side
	if customErr.Internal != nil {
		log.Error().
			Err(customErr.Internal).
			Str("type", string(customErr.Type)).
			Str("url", c.Request.URL.String()).
			Msg("Request failed")
	}

	c.JSON(customErr.StatusCode, gin.H{
		"error": gin.H{
			"type":    customErr.Type,
			"message": customErr.Message,
		},
	})
}
