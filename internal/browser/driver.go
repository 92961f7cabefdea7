package browser

import (
	"errors"
	"time"
)

// ErrElementNotFound reports that a bounded wait expired without the element
// appearing. Callers treat it as an expected branch, distinct from hard
// engine failures (crashed session, protocol errors).
var ErrElementNotFound = errors.New("element not found")

// Element is a handle to a located DOM element.
type Element interface {
	Click() error
	// Type enters text one keystroke at a time with the given inter-key delay.
	Type(text string, delay time.Duration) error
	// SetFiles assigns local file paths to a file input element.
	SetFiles(paths []string) error
}

// FileChooser is a native file-picking surface raised by the page.
type FileChooser interface {
	SetFiles(paths []string) error
}

// Session is one exclusive browser session bound to a profile directory.
type Session interface {
	Navigate(url string, opts NavigateOptions) error

	// Find waits up to timeout for a selector match. It returns
	// ErrElementNotFound when the wait expires; any other error is an
	// engine failure.
	Find(selector string, timeout time.Duration) (Element, error)

	// FindAll returns all current matches without waiting.
	FindAll(selector string) ([]Element, error)

	// ExpectFileChooser runs trigger and concurrently awaits a file chooser,
	// returning only once both the trigger completed and the chooser appeared.
	ExpectFileChooser(trigger func() error, timeout time.Duration) (FileChooser, error)

	// ExpectResponse runs trigger and waits for a network response matching
	// predicate, returning its body. ErrElementNotFound is returned when the
	// wait expires.
	ExpectResponse(predicate func(url string, status int) bool, trigger func() error, timeout time.Duration) ([]byte, error)

	Close() error
}

// Driver owns the automation engine and opens isolated sessions.
type Driver interface {
	Open(opts SessionOptions) (Session, error)
	Stop() error
}
