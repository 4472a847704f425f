package writer

import (
	"errors"
	"fmt"

	"github.com/sagadevanmi/nifty-stocks-etl/internal/storage"
)

// ErrUnsupportedPayload is returned by Dispatch for payloads that are neither
// a sequence of records nor a table.
var ErrUnsupportedPayload = errors.New("unsupported payload type")

// Error is the value every writer operation returns on failure. It names the
// operation and carries a closed failure Kind.
type Error struct {
	Op   string
	Kind storage.Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v in %s", e.Err, e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

func opError(op string, kind storage.Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: storage.Wrap(kind, err)}
}

func storeError(op string, err error) *Error {
	se := storage.Classify(err)
	return &Error{Op: op, Kind: se.Kind, Err: se}
}

// Diagnostic renders err as the diagnostic string callers log or persist.
// It returns "" for a nil error.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
