package tool

import "fmt"

// ErrorKind is the transport-neutral failure taxonomy. Every failure that
// crosses the dispatch boundary carries exactly one kind; transports map
// kinds to their own encodings (the REST adapter picks HTTP status codes
// from it, the stream adapter renders a textual failure marker).
type ErrorKind string

const (
	// KindNotFound covers a missing file, an unknown city, an unknown
	// table, and dispatch by an unregistered tool name.
	KindNotFound ErrorKind = "not_found"

	// KindValidation covers a missing required argument or an argument of
	// the wrong type.
	KindValidation ErrorKind = "validation"

	// KindPolicy covers calls rejected by a tool's policy rule.
	KindPolicy ErrorKind = "policy"

	// KindIO covers file system failures.
	KindIO ErrorKind = "io"

	// KindNetwork covers unreachable or timed-out upstream hosts.
	KindNetwork ErrorKind = "network"

	// KindDatabase covers query execution failures.
	KindDatabase ErrorKind = "database"
)

// Error is the typed failure returned by dispatch. It satisfies the error
// interface so executors can return it through ordinary error plumbing.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Errorf constructs an [*Error] of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Result is the successful outcome of one tool invocation.
//
// Data is a structured payload (scalar, record, or table) that JSON
// transports emit directly; Text is the same payload rendered as a single
// text blob for transports that only carry text. Executors populate both so
// no transport ever has to re-derive structure from rendered text.
type Result struct {
	Data any
	Text string
}

// TextResult builds a [*Result] whose structured payload is the rendered
// text itself. Used by tools whose natural output is a plain string.
func TextResult(text string) *Result {
	return &Result{Data: text, Text: text}
}
