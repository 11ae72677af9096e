package docstore

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotFound reports a lookup by id (and optionally org) that matched
	// nothing. It is a value, not a failure: callers map it to their own
	// empty-result or HTTP-404 handling.
	ErrNotFound = errors.New("document not found")

	// ErrMissingID reports an upsert of a document without an id field.
	ErrMissingID = errors.New("document has no id field")

	// ErrStorage reports an I/O or driver failure talking to the database.
	// It is always surfaced, never swallowed.
	ErrStorage = errors.New("storage backend failure")

	// ErrCorruptDocument reports a stored payload that failed to parse.
	// Raised only when Config.SkipCorrupt is false.
	ErrCorruptDocument = errors.New("stored document failed to parse")

	// ErrInvalidSortField reports a sort field that is not a plain
	// identifier and therefore cannot be interpolated into SQL.
	ErrInvalidSortField = errors.New("sort field is not a valid identifier")

	// ErrInvalidConfig reports a configuration that fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownDriver reports a driver name with no registered dialect.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// ErrorWithContext adds key-value context to errors for better debugging
// and logging.
type ErrorWithContext struct {
	Err     error
	Context map[string]any
}

func (e *ErrorWithContext) Error() string {
	if len(e.Context) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (context: %+v)", e.Err, e.Context)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

// WithContext adds context to an error.
func WithContext(err error, context map[string]any) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{
		Err:     err,
		Context: context,
	}
}

// storageError wraps a driver failure so callers can classify it with
// IsStorage while errors.Is still reaches the underlying driver error.
func storageError(err error, context map[string]any) error {
	return WithContext(fmt.Errorf("%w: %w", ErrStorage, err), context)
}

// Common error checking helpers

// IsNotFound checks if an error is a "not found" result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorage checks if an error is an infrastructure failure.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsCorrupt checks if an error is a corrupt stored payload.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptDocument)
}
