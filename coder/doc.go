// Package coder implements the bit-level codec core for tagged binary
// containers in the SWF family.
//
// A stream is a sequence of records. Each record starts with a header
// carrying a type code and the length of its body, and records may nest.
// The package provides:
//
//   - Decoder and Encoder: bit-granular readers and writers with sticky
//     errors, little-endian words, zero-terminated and fixed strings in a
//     configurable text encoding, and a stack of open records whose
//     declared lengths are checked on close.
//   - Format: the header grammars (TagFormat, ActionFormat, OffsetFormat).
//   - Plan: the sized result of the measuring pass of a two-pass encode.
//   - Registry: type code to Factory dispatch with an Opaque fallback, so
//     that records nobody registered still round-trip byte for byte.
//   - Context: per-run state shared with nested records, including scoped
//     integer keys such as the glyph field widths of a text record.
//
// # Decoding
//
//	d := coder.NewDecoderWithDefaults(data)
//	ctx := coder.NewContext(tags, actions)
//	rec, err := tags.Decode(d, ctx)
//
// # Encoding
//
//	p, err := rec.Prepare(ctx)
//	e := coder.NewEncoderWithDefaults(p.Length())
//	err = rec.Encode(e, p, ctx)
//
// Marshal and Unmarshal wrap both directions for a single record.
//
// # Writing records
//
// A record decoder brackets its body with Begin and End; End fails with an
// errors.FramingError when the body consumed differs from the declared
// length. Reads after a failure return zero values, so the body can be
// written without per-call checks:
//
//	func decodeFree(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
//		d.Begin("Free", coder.TagFormat)
//		f := &Free{Identifier: d.ReadU16()}
//		if err := d.End(); err != nil {
//			return nil, err
//		}
//		return f, nil
//	}
package coder
