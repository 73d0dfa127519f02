// Package errors provides structured error types for the swf codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes the chain of enclosing record names, the record type,
// the offending value and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("DefineButton2", "ButtonRecord").
//		Record("ButtonRecord").
//		Detail("filter lists are not supported").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.BufferOverrun(errors.PhaseDecode, path, pos, 16, limit)
//	err := errors.UnsupportedEncoding(errors.PhaseDecode, "x-unknown", nil)
//
// Length mismatches between a record header and its body are reported as
// *FramingError, which carries the record name, the byte offset of its header,
// the declared length and the signed delta to the actual end.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
