package harness

import (
	"fmt"
)

// InteractionError reports a UI interaction that could not be performed:
// the target never became visible, enabled or editable, or the engine
// rejected the action.
type InteractionError struct {
	Op          string
	Description string
	Err         error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Description, e.Err)
}

func (e *InteractionError) Unwrap() error { return e.Err }

// NavigationTimeoutError reports a URL condition that was not met in time.
type NavigationTimeoutError struct {
	Description string
	Pattern     string
	Err         error
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for URL %s (%s): %v", e.Description, e.Pattern, e.Err)
}

func (e *NavigationTimeoutError) Unwrap() error { return e.Err }

// NavigationError reports a failed page load.
type NavigationError struct {
	Description string
	URL         string
	Err         error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to navigate to %s (%s): %v", e.Description, e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// EmptyContentError reports a text read that produced no content. It is
// distinct from a timeout: the element was attached but had no text.
type EmptyContentError struct {
	Description string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("failed to get text from %s: element text content is empty", e.Description)
}

// TransportError reports an HTTP call that could not complete. A response
// with a non-2xx status is not a TransportError.
type TransportError struct {
	Method      string
	Endpoint    string
	Description string
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed (%s): %v", e.Method, e.Endpoint, e.Description, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AssertionError reports a verification whose expected value was not
// observed.
type AssertionError struct {
	Description string
	Expected    string
	Actual      string
	Err         error
}

func (e *AssertionError) Error() string {
	msg := fmt.Sprintf("assertion failed: %s: expected %q, got %q", e.Description, e.Expected, e.Actual)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssertionError) Unwrap() error { return e.Err }
