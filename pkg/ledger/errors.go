package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error classes. Every domain error wraps exactly one of them so front ends can
// map failures without knowing each specific value.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPermission  = errors.New("permission denied")
	ErrPersistence = errors.New("persistence failure")
)

// Domain-level error values returned by the ledgers.
var (
	ErrInvalidUserID        = fmt.Errorf("%w: invalid user id", ErrValidation)
	ErrInvalidState         = fmt.Errorf("%w: invalid state code", ErrValidation)
	ErrInvalidPlateFormat   = fmt.Errorf("%w: invalid plate format", ErrValidation)
	ErrInvalidField         = fmt.Errorf("%w: invalid field", ErrValidation)
	ErrInvalidAmount        = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrSelfPayment          = fmt.Errorf("%w: cannot pay yourself", ErrValidation)
	ErrBotRecipient         = fmt.Errorf("%w: cannot pay a bot", ErrValidation)
	ErrInvalidAdjustment    = fmt.Errorf("%w: invalid adjustment", ErrValidation)
	ErrInvalidSessionID     = fmt.Errorf("%w: invalid session id", ErrValidation)
	ErrInvalidSessionStatus = fmt.Errorf("%w: invalid session status", ErrValidation)
	ErrInvalidSessionLink   = fmt.Errorf("%w: invalid session link", ErrValidation)
	ErrInvalidReason        = fmt.Errorf("%w: invalid reason", ErrValidation)
	ErrInvalidSettings      = fmt.Errorf("%w: invalid settings", ErrValidation)

	ErrVehicleNotFound = fmt.Errorf("%w: vehicle", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	ErrDuplicatePlate    = fmt.Errorf("%w: plate already registered", ErrConflict)
	ErrAlreadyJoined     = fmt.Errorf("%w: already joined", ErrConflict)
	ErrNotJoined         = fmt.Errorf("%w: not joined", ErrConflict)
	ErrAlreadyClaimed    = fmt.Errorf("%w: reward already claimed", ErrConflict)
	ErrOnCooldown        = fmt.Errorf("%w: on cooldown", ErrConflict)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrConflict)

	ErrNotAuthorized = fmt.Errorf("%w: not authorized", ErrPermission)

	ErrCorruptDocument = fmt.Errorf("%w: corrupt document", ErrPersistence)

	ErrInvalidServiceConfig = errors.New("invalid service config")
)

// Error class names returned by ErrorClass.
const (
	ErrorClassValidation  = "validation"
	ErrorClassNotFound    = "not_found"
	ErrorClassConflict    = "conflict"
	ErrorClassPermission  = "permission"
	ErrorClassPersistence = "persistence"
	ErrorClassInternal    = "internal"
	ErrorClassCanceled    = "canceled"
)

// ErrorClass names the class err belongs to. Errors outside the taxonomy are
// internal; nil has no class.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorClassCanceled
	case errors.Is(err, ErrValidation):
		return ErrorClassValidation
	case errors.Is(err, ErrNotFound):
		return ErrorClassNotFound
	case errors.Is(err, ErrConflict):
		return ErrorClassConflict
	case errors.Is(err, ErrPermission):
		return ErrorClassPermission
	case errors.Is(err, ErrPersistence):
		return ErrorClassPersistence
	default:
		return ErrorClassInternal
	}
}

// ErrSkipSave is returned by an update callback to finish successfully without
// writing the document back.
var ErrSkipSave = errors.New("skip save")

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}

// CooldownError reports a reward or work claim made before its cooldown elapsed.
type CooldownError struct {
	Kind           CooldownKind
	NextEligibleAt time.Time
}

// Error returns the formatted error message.
func (cooldownError *CooldownError) Error() string {
	return fmt.Sprintf("%v: %s available at %s", cooldownError.Unwrap(), cooldownError.Kind, cooldownError.NextEligibleAt.UTC().Format(time.RFC3339))
}

// Unwrap maps work to ErrOnCooldown and rewards to ErrAlreadyClaimed.
func (cooldownError *CooldownError) Unwrap() error {
	if cooldownError.Kind == CooldownWork {
		return ErrOnCooldown
	}
	return ErrAlreadyClaimed
}

// RetryAfter returns how long the caller has to wait, relative to now.
func (cooldownError *CooldownError) RetryAfter(now time.Time) time.Duration {
	remaining := cooldownError.NextEligibleAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
