package services

import (
	"errors"
	"fmt"

	"bankguard/internal/metrics"
)

// Error classes. Every sentinel below wraps exactly one of them, so callers
// can classify with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

var (
	ErrInvalidID            = fmt.Errorf("%w: id must not be blank", ErrValidation)
	ErrInvalidName          = fmt.Errorf("%w: name must not be blank", ErrValidation)
	ErrInvalidEmail         = fmt.Errorf("%w: email is malformed", ErrValidation)
	ErrInvalidBalance       = fmt.Errorf("%w: balance must be zero or positive", ErrValidation)
	ErrInvalidOverdraft     = fmt.Errorf("%w: overdraft must be zero or positive", ErrValidation)
	ErrInvalidInterestRate  = fmt.Errorf("%w: interest rate must be between 0 and 100", ErrValidation)
	ErrInvalidAccountNumber = fmt.Errorf("%w: account number must look like CPT-NNNNN", ErrValidation)
	ErrInvalidTimestamp     = fmt.Errorf("%w: timestamp is missing or in the future", ErrValidation)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidKind          = fmt.Errorf("%w: unknown transaction kind", ErrValidation)
	ErrInvalidLocation      = fmt.Errorf("%w: location must not be blank", ErrValidation)

	ErrClientNotFound      = fmt.Errorf("client %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)

	ErrWrongAccountKind       = fmt.Errorf("%w: operation not allowed for this account kind", ErrConflict)
	ErrAccountHasTransactions = fmt.Errorf("%w: account still has transactions", ErrConflict)
	ErrClientHasAccounts      = fmt.Errorf("%w: client still owns accounts", ErrConflict)
	ErrNumberAllocation       = fmt.Errorf("%w: could not allocate a unique account number", ErrConflict)
)

// outcome maps an operation result onto a metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
