// Package errors provides common, reusable error values and helpers for the
// simulation engine's failure semantics (spec §7): ConfigError, NotFound, and
// InsufficientLiquidity are ordinary sentinels; ConstraintViolation and
// InvariantViolation carry structured context and are defined in
// invariant.go.
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrAgentNotFound         = errors.New("agent not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrLotNotFound           = errors.New("collateral lot not found")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrConfigInvalid         = errors.New("invalid configuration")
	ErrAlreadySettled        = errors.New("transaction already settled")
	ErrNotDivisible          = errors.New("transaction is not divisible")
	ErrQueue1Only            = errors.New("split is only permitted while a transaction is in queue 1")
)

// New returns a new error with the given text
func New(text string) error {
	return errors.New(text)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
