package hosttriple

import "fmt"

// Kind classifies a query failure.
type Kind int

const (
	// ProcessIO means the command could not be spawned or did not run
	// to completion (not found, permission denied, timed out).
	ProcessIO Kind = iota + 1
	// InvalidEncoding means stdout was not valid UTF-8.
	InvalidEncoding
	// UnexpectedStructure means stdout decoded fine but no line starts
	// with "host: ".
	UnexpectedStructure
)

func (k Kind) String() string {
	switch k {
	case ProcessIO:
		return "process I/O"
	case InvalidEncoding:
		return "invalid encoding"
	case UnexpectedStructure:
		return "unexpected structure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrProcessIO           = &Error{Kind: ProcessIO}
	ErrInvalidEncoding     = &Error{Kind: InvalidEncoding}
	ErrUnexpectedStructure = &Error{Kind: UnexpectedStructure}
)

// Error is returned by Query, FromCLI and Parse.
type Error struct {
	Kind    Kind
	Command string // e.g. "rustc -vV"; empty when returned by Parse
	Err     error  // underlying cause; nil for UnexpectedStructure
}

func (e *Error) Error() string {
	cmd := e.Command
	if cmd == "" {
		cmd = "command"
	}
	switch e.Kind {
	case ProcessIO:
		return fmt.Sprintf("I/O error when executing `%s`: %v", cmd, e.Err)
	case InvalidEncoding:
		return fmt.Sprintf("output of `%s` was not valid UTF-8: %v", cmd, e.Err)
	case UnexpectedStructure:
		return fmt.Sprintf("unexpected output structure for `%s` after successful execution", cmd)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// InvalidUTF8Error locates the first invalid UTF-8 sequence in the output.
type InvalidUTF8Error struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 sequence at byte offset %d", e.Offset)
}
