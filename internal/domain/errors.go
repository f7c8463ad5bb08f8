package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors. Every one of these is a normal,
// expected outcome the caller branches on, not a fatal condition.

func ErrInvalidAmount(msg string) *AppError {
	return &AppError{Code: "INVALID_AMOUNT", Message: msg, Status: 400}
}

func ErrAlreadyPending(kind RequestKind) *AppError {
	return &AppError{Code: "ALREADY_PENDING", Message: fmt.Sprintf("a pending %s request already exists for this user", kind), Status: 409}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrAlreadyResolved(id string) *AppError {
	return &AppError{Code: "ALREADY_RESOLVED", Message: fmt.Sprintf("request %s is no longer pending", id), Status: 409}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 403}
}

func ErrGameClosed() *AppError {
	return &AppError{Code: "GAME_CLOSED", Message: "game is completed and can no longer be modified", Status: 409}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
