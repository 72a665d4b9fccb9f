package model

import (
	"errors"
	"fmt"
)

// Error kinds returned by the lifecycle engine, services and repositories.
// Callers match them with errors.Is; details are attached with %w wrapping.
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrAlreadyPaid  = errors.New("payment already paid")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence failure")

	ErrInvalidAmount     = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrUnsupportedMethod = fmt.Errorf("%w: unsupported payment method", ErrValidation)
)
