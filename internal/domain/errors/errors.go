package errors

import "errors"

// Sentinel errors shared across layers. The HTTP layer maps them to
// status codes with errors.Is, so wrapping with fmt.Errorf("%w") is fine.
var (
	// ErrValidation: malformed or missing input, caller must fix and resubmit.
	ErrValidation = errors.New("invalid input")
	// ErrUnauthorized: role or identity mismatch, not retryable.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound: unknown entity identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition: requested status change is not permitted from
	// the current state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict: lost a concurrency race; re-fetch before deciding to retry.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable: transient store or transport failure, safe to retry
	// with backoff.
	ErrUnavailable = errors.New("temporarily unavailable")

	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TransitionError reports an illegal state machine edge. It carries the
// observed status so clients rejected with a conflict can resync.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return "cannot move order from " + e.From + " to " + e.To
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
