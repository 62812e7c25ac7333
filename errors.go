package storefront

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios. Ordinary consumption-protocol
// outcomes (unknown item, insufficient stock, non-positive quantity) are
// boolean results, not errors.
var (
	// General errors
	ErrNotFound      = errors.New("storefront: not found")
	ErrAlreadyExists = errors.New("storefront: already exists")
	ErrInvalidInput  = errors.New("storefront: invalid input")

	// Construction errors
	ErrNilStocker       = errors.New("storefront: nil stocker")
	ErrStockingFailed   = errors.New("storefront: inventory stocking failed")
	ErrDuplicateArticle = errors.New("storefront: duplicate article id")
	ErrCurrencyMismatch = errors.New("storefront: currency mismatch")

	// Subscription errors
	ErrNilSubscriber = errors.New("storefront: nil subscriber")

	// Registry errors
	ErrForeignClerk = errors.New("storefront: clerk owned by another store")
	ErrNilClerk     = errors.New("storefront: nil clerk")

	// Journal errors
	ErrTxnBufferFull   = errors.New("storefront: transaction buffer full")
	ErrJournalNotReady = errors.New("storefront: journal not ready")
	ErrMigrationFailed = errors.New("storefront: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("storefront: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConstructionError returns true if the error aborted store construction.
func IsConstructionError(err error) bool {
	return errors.Is(err, ErrNilStocker) ||
		errors.Is(err, ErrStockingFailed) ||
		errors.Is(err, ErrDuplicateArticle)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTxnBufferFull) ||
		errors.Is(err, ErrJournalNotReady)
}
