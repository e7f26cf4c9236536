package showcase

import (
	"errors"
	"fmt"
)

// ErrorKind classifies where a failure originated.
type ErrorKind string

// Error kinds raised by the pipeline stages.
const (
	KindFetch         ErrorKind = "fetch"
	KindImageDownload ErrorKind = "image_download"
	KindGeneration    ErrorKind = "generation"
	KindPublish       ErrorKind = "publish"
	KindConfig        ErrorKind = "config"
)

// ErrNoMediaID is returned when the CMS accepts an upload but reports no
// identifier for it.
var ErrNoMediaID = errors.New("media upload returned no id")

// Error tags a stage failure with its kind, the URL involved, and the
// operation that failed.
type Error struct {
	Kind ErrorKind
	Op   string
	URL  string
	Err  error
}

// NewError wraps err as a stage failure.
func NewError(kind ErrorKind, op, url string, err error) *Error {
	return &Error{Kind: kind, Op: op, URL: url, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.URL != "" && e.Err != nil:
		return fmt.Sprintf("%s %s %s: %v", e.Kind, e.Op, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Op)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var stageErr *Error
	if errors.As(err, &stageErr) {
		return stageErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
