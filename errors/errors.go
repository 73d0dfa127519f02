package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // bytes to records
	PhaseEncode   Phase = "encode"   // records to bytes
	PhaseRegister Phase = "register" // registry assembly
	PhaseLoad     Phase = "load"     // movie header handling
	PhaseCompress Phase = "compress" // body inflate/deflate
)

// Kind categorizes the error
type Kind string

const (
	KindBufferOverrun       Kind = "buffer_overrun"
	KindFraming             Kind = "framing"
	KindUnsupportedEncoding Kind = "unsupported_encoding"
	KindInvalidData         Kind = "invalid_data"
	KindNesting             Kind = "nesting"
	KindNoPlan              Kind = "no_plan"
	KindUnsupported         Kind = "unsupported"
	KindInvalidInput        Kind = "invalid_input"
	KindRegistration        Kind = "registration"
	KindBitCount            Kind = "bit_count"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Record string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Record != "" {
		b.WriteString(": record ")
		b.WriteString(e.Record)
	}

	if e.Detail != "" {
		if e.Record != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the chain of enclosing record names
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Record sets the record type name
func (b *Builder) Record(name string) *Builder {
	b.err.Record = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// BufferOverrun creates an error for an access past the end of the buffer.
// Positions are in bits.
func BufferOverrun(phase Phase, path []string, pos, want, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferOverrun,
		Path:   path,
		Detail: fmt.Sprintf("%d bits at bit %d exceed buffer of %d bits", want, pos, limit),
		Value:  pos,
	}
}

// UnsupportedEncoding creates an error for a text encoding that cannot be used.
func UnsupportedEncoding(phase Phase, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedEncoding,
		Detail: fmt.Sprintf("text encoding %q is not supported", name),
		Value:  name,
		Cause:  cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Nesting creates an error for records nested deeper than allowed.
func Nesting(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNesting,
		Path:   path,
		Detail: fmt.Sprintf("records nested deeper than %d", limit),
		Value:  limit,
	}
}

// NoPlan creates an error for an encode that was not preceded by a prepare.
func NoPlan(record string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindNoPlan,
		Record: record,
		Detail: "encode called without a plan from Prepare",
	}
}

// BitCount creates an error for a bit field width outside 0..32.
func BitCount(phase Phase, n int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBitCount,
		Detail: fmt.Sprintf("bit field width %d outside 0..32", n),
		Value:  n,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registry assembly error
func Registration(code int, detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("type code %d: %s", code, detail),
		Value:  code,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a movie header error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// FramingError reports a record whose encoded size differs from the
// length its header declared. Path names the records enclosing it.
type FramingError struct {
	Phase  Phase
	Record string
	Path   []string
	Offset int // byte offset of the record header
	Length int // declared body length in bytes
	Delta  int // actual end minus expected end, in bytes
}

// NewFramingError creates a FramingError. Delta is derived from the bit
// positions so partial bytes round toward the actual end.
func NewFramingError(phase Phase, record string, path []string, startBit, length, actualEndBit, expectedEndBit int) *FramingError {
	return &FramingError{
		Phase:  phase,
		Record: record,
		Path:   path,
		Offset: startBit >> 3,
		Length: length,
		Delta:  (actualEndBit - expectedEndBit) >> 3,
	}
}

func (e *FramingError) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(KindFraming))
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	fmt.Fprintf(&b, ": record %s at byte %d declared %d bytes", e.Record, e.Offset, e.Length)
	switch {
	case e.Delta > 0:
		fmt.Fprintf(&b, ", overran by %d", e.Delta)
	case e.Delta < 0:
		fmt.Fprintf(&b, ", underran by %d", -e.Delta)
	default:
		b.WriteString(", off by less than a byte")
	}
	return b.String()
}

// Is reports whether target is a FramingError
func (e *FramingError) Is(target error) bool {
	switch t := target.(type) {
	case *FramingError:
		return true
	case *Error:
		return t.Kind == KindFraming && (t.Phase == "" || t.Phase == e.Phase)
	}
	return false
}

// KindOf returns the Kind of the first codec error in err's chain, or ""
// when there is none.
func KindOf(err error) Kind {
	var fe *FramingError
	var e *Error
	switch {
	case stderrors.As(err, &e):
		return e.Kind
	case stderrors.As(err, &fe):
		return KindFraming
	}
	return ""
}
