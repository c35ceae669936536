package domain

import "errors"

var (
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidState  = errors.New("operation not allowed in current experiment state")
	ErrDataIntegrity = errors.New("experiment record is inconsistent")
)
