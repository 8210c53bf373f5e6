package content

import "errors"

// Error kinds returned by Store operations. Test with errors.Is.
var (
	ErrInvalidName    = errors.New("invalid name")
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
	ErrStorage        = errors.New("storage error")
)

// Backend implementations report these so the Store can tell a miss or a
// duplicate apart from an I/O failure.
var (
	ErrNotExist = errors.New("item does not exist")
	ErrExist    = errors.New("item already exists")
)

// Error carries the kind of a failed operation and the message shown to the
// editor client.
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func opError(op string, kind error, msg string, cause error) *Error {
	return &Error{Op: op, Kind: kind, Message: msg, Err: cause}
}
