package apperrors

import (
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error types
var (
	ErrUnauthorized = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden    = New(http.StatusForbidden, "Access denied", nil)
	ErrNotFound     = New(http.StatusNotFound, "Not found", nil)
	ErrRateLimited  = New(http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
)

// Checkout error types
var (
	ErrEmptyCart                = New(http.StatusBadRequest, "No items in cart", nil)
	ErrInvalidOrInactiveProduct = New(http.StatusBadRequest, "Some products are invalid or inactive", nil)
)

// Webhook error types
var (
	ErrInvalidSignature = New(http.StatusBadRequest, "Webhook signature verification failed", nil)
	ErrMissingSecret    = New(http.StatusInternalServerError, "Webhook secret not configured", nil)
)

// Validation creates a 400 error with field-level detail in the message.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound creates a 404 error naming the missing entity.
func NotFound(entity string) *Error {
	return New(http.StatusNotFound, entity+" not found", nil)
}

// Conflict creates a 409 error for duplicate slugs and dependent records.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// InsufficientStock names the product and the available vs. requested
// quantities, matching the detail checkout callers rely on.
func InsufficientStock(productName string, available, requested int) *Error {
	return New(http.StatusBadRequest,
		fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", productName, available, requested),
		nil)
}

// Internal wraps an unexpected error. The wrapped cause is logged server-side
// but never serialized to the caller.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal server error", err)
}
