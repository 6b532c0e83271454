package textparse

import (
	"errors"
	"fmt"
)

// Kind tags a parse error with its failure class. Callers are expected to
// match on the kind rather than on message text.
type Kind int

const (
	KindUnsupportedFileType Kind = iota + 1
	KindReadError
	KindEncodingError
	KindEmptyData
	KindParsingError
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedFileType:
		return "UnsupportedFileType"
	case KindReadError:
		return "ReadError"
	case KindEncodingError:
		return "EncodingError"
	case KindEmptyData:
		return "EmptyData"
	case KindParsingError:
		return "ParsingError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the typed error returned by the parsers. StartLine/EndLine
// carry the failing block range when one applies; both are -1 otherwise.
type Error struct {
	Kind      Kind
	Path      string
	StartLine int
	EndLine   int
	Msg       string
	Err       error
}

func newError(kind Kind, path, msg string) *Error {
	return &Error{Kind: kind, Path: path, StartLine: -1, EndLine: -1, Msg: msg}
}

func (e *Error) Error() string {
	s := e.Kind.String() + ": " + e.Msg
	if e.Path != "" {
		s = e.Path + ": " + s
	}
	if e.StartLine >= 0 {
		s = fmt.Sprintf("%s (lines %d..%d)", s, e.StartLine, e.EndLine)
	}
	if e.Err != nil {
		s = s + ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a parse error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}
