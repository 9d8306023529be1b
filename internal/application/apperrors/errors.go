// Package apperrors defines the error taxonomy translated at the HTTP
// boundary: BadRequest, NotFound and Unauthorized. Anything else surfaces
// as an internal error.
package apperrors

import "fmt"

// BadRequestError carries structured per-field validation messages.
type BadRequestError struct {
	Message string
	// ValidationErrors maps a field name to its failure messages.
	ValidationErrors map[string][]string
}

func (e *BadRequestError) Error() string { return e.Message }

func NewBadRequest(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}

func NewValidation(message string, errs map[string][]string) *BadRequestError {
	return &BadRequestError{Message: message, ValidationErrors: errs}
}

// NotFoundError reports a missing entity by name and key.
type NotFoundError struct {
	Name string
	Key  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s (%v) was not found", e.Name, e.Key)
}

func NewNotFound(name string, key any) *NotFoundError {
	return &NotFoundError{Name: name, Key: key}
}

// UnauthorizedError rejects the request with 401.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

func NewUnauthorized(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}
