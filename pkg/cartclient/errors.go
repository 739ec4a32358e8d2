package cartclient

import "fmt"

// LookupError reports a cart-existence check that failed for a reason other
// than "not found". It is deliberately distinct from the not-found outcome:
// treating a transient failure as an empty cart would trigger a spurious
// create and wipe the user's persisted cart.
type LookupError struct {
	StatusCode int
	cause      error
}

func (e *LookupError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("cart lookup failed: %v", e.cause)
	}
	return fmt.Sprintf("cart lookup failed: status %d", e.StatusCode)
}

func (e *LookupError) Unwrap() error { return e.cause }

// WriteError reports a create or update call that returned non-2xx. Body
// carries the upstream response text as the error detail.
type WriteError struct {
	StatusCode int
	Body       string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cart write failed: status %d: %s", e.StatusCode, e.Body)
}
