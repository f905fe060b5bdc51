package domain

import "errors"

// ============================================================================
// Input Errors
// ============================================================================

var (
	ErrEmptyPrompt        = errors.New("prompt must not be empty")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountName = errors.New("name must contain only letters")
	ErrWeakPassword       = errors.New("password must start uppercase, include a number and be at least 8 characters")
	ErrEmailTaken         = errors.New("email has already been registered")
	ErrWrongPassword      = errors.New("wrong password")
)

// ============================================================================
// Generator Errors
// ============================================================================

var (
	ErrGeneratorUnavailable = errors.New("image generator unavailable")
	ErrGeneratorTimeout     = errors.New("image generator timed out")
)

// ============================================================================
// Content Store Errors
// ============================================================================

var (
	ErrUploadFailed            = errors.New("content upload failed")
	ErrContentStoreUnavailable = errors.New("content store unavailable")
)

// ============================================================================
// Ledger Errors
// ============================================================================

var (
	ErrInsufficientFunds   = errors.New("insufficient funds for mint payment")
	ErrUserRejected        = errors.New("transaction rejected by signer")
	ErrLedgerNetwork       = errors.New("ledger network error")
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
)

// ============================================================================
// Saga Errors
// ============================================================================

var (
	ErrSagaNotFound = errors.New("mint saga not found")
	ErrSagaConflict = errors.New("mint saga state changed concurrently")
)
