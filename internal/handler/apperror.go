package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidInput       = &AppError{http.StatusBadRequest, "INVALID_INPUT", "Invalid input"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrAccountNotFound    = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrDuplicateEmail     = &AppError{http.StatusConflict, "DUPLICATE_EMAIL", "An account with this email already exists"}
	ErrStorageUnavailable = &AppError{http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Account storage is unavailable, please retry"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}
)
