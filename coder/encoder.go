package coder

import (
	stderrors "errors"

	"github.com/wippyai/swf/coder/internal/bits"
	"github.com/wippyai/swf/errors"
)

// Encoder writes records into a buffer sized up front from the plans
// computed by Prepare. Errors are sticky in the same way as Decoder.
type Encoder struct {
	cur      *bits.Cursor
	err      error
	charset  charset
	frames   []frame
	maxDepth int
}

// NewEncoder creates an Encoder with a zeroed buffer of size bytes.
func NewEncoder(size int, opts Options) (*Encoder, error) {
	if size < 0 {
		return nil, errors.InvalidInput(errors.PhaseEncode, "negative buffer size")
	}
	cs, err := lookupCharset(errors.PhaseEncode, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		cur:      bits.New(make([]byte, size)),
		charset:  cs,
		maxDepth: opts.maxDepth(),
	}, nil
}

// NewEncoderWithDefaults creates an Encoder with DefaultOptions.
func NewEncoderWithDefaults(size int) *Encoder {
	e, _ := NewEncoder(size, DefaultOptions())
	return e
}

// Err returns the first error encountered.
func (e *Encoder) Err() error {
	return e.err
}

// SetError records err unless an error is already set.
func (e *Encoder) SetError(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

func (e *Encoder) fail(err error, n int) {
	switch {
	case stderrors.Is(err, bits.ErrBitCount):
		e.SetError(errors.BitCount(errors.PhaseEncode, n))
	case stderrors.Is(err, bits.ErrOverrun):
		e.SetError(errors.BufferOverrun(errors.PhaseEncode, e.Path(), e.cur.Pos(), n, e.cur.Limit()))
	default:
		e.SetError(err)
	}
}

// SetEncoding selects the text encoding for subsequent string writes.
func (e *Encoder) SetEncoding(name string) error {
	cs, err := lookupCharset(errors.PhaseEncode, name)
	if err != nil {
		return err
	}
	e.charset = cs
	return nil
}

// Encoding returns the name of the text encoding.
func (e *Encoder) Encoding() string {
	return e.charset.name
}

// Data returns the buffer, including any bytes not yet written.
func (e *Encoder) Data() []byte {
	return e.cur.Data()
}

// Bytes returns the bytes written so far.
func (e *Encoder) Bytes() []byte {
	return e.cur.Data()[:(e.cur.Pos()+7)>>3]
}

// Pos returns the bit position.
func (e *Encoder) Pos() int {
	return e.cur.Pos()
}

// EOF reports whether the buffer is full.
func (e *Encoder) EOF() bool {
	return e.cur.Remaining() == 0
}

// Align advances to the next byte boundary, leaving the skipped bits zero.
func (e *Encoder) Align() {
	e.cur.Align()
}

// WriteBits writes the low n bits of v.
func (e *Encoder) WriteBits(v int32, n int) {
	if e.err != nil {
		return
	}
	if err := e.cur.WriteBits(v, n); err != nil {
		e.fail(err, n)
	}
}

// WriteUBits writes the low n bits of v.
func (e *Encoder) WriteUBits(v uint32, n int) {
	e.WriteBits(int32(v), n)
}

// WriteBool writes a single bit.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteBits(1, 1)
	} else {
		e.WriteBits(0, 1)
	}
}

// WriteU8 writes one byte.
func (e *Encoder) WriteU8(v uint8) {
	if e.err != nil {
		return
	}
	if err := e.cur.WriteByte(v); err != nil {
		e.fail(err, 8)
	}
}

// WriteWord writes the low n bytes of v little-endian.
func (e *Encoder) WriteWord(v int32, n int) {
	if e.err != nil {
		return
	}
	if n < 1 || n > 4 {
		e.SetError(errors.BitCount(errors.PhaseEncode, n<<3))
		return
	}
	var b [4]byte
	u := uint32(v)
	for i := 0; i < n; i++ {
		b[i] = byte(u >> (8 * i))
	}
	if err := e.cur.WriteBytes(b[:n]); err != nil {
		e.fail(err, n<<3)
	}
}

// WriteU16 writes a little-endian uint16.
func (e *Encoder) WriteU16(v uint16) {
	e.WriteWord(int32(v), 2)
}

// WriteS16 writes a little-endian int16.
func (e *Encoder) WriteS16(v int16) {
	e.WriteWord(int32(v), 2)
}

// WriteU32 writes a little-endian uint32.
func (e *Encoder) WriteU32(v uint32) {
	e.WriteWord(int32(v), 4)
}

// WriteS32 writes a little-endian int32.
func (e *Encoder) WriteS32(v int32) {
	e.WriteWord(v, 4)
}

// WriteBytes writes b.
func (e *Encoder) WriteBytes(b []byte) {
	if e.err != nil {
		return
	}
	if err := e.cur.WriteBytes(b); err != nil {
		e.fail(err, len(b)<<3)
	}
}

// WriteFixedString writes s without a terminator.
func (e *Encoder) WriteFixedString(s string) {
	if e.err != nil {
		return
	}
	b, err := e.charset.encode(s)
	if err != nil {
		e.SetError(err)
		return
	}
	e.WriteBytes(b)
}

// WriteString writes s followed by a zero byte.
func (e *Encoder) WriteString(s string) {
	e.WriteFixedString(s)
	e.WriteU8(0)
}

// Path returns the names of the open records, outermost first.
func (e *Encoder) Path() []string {
	return framePath(e.frames)
}

// Depth returns the number of open records.
func (e *Encoder) Depth() int {
	return len(e.frames)
}

// Begin writes the header described by p and opens a record named name.
// Every Begin must be paired with End.
func (e *Encoder) Begin(name string, p Plan) {
	start := e.cur.Pos()
	if e.err == nil && len(e.frames) >= e.maxDepth {
		e.SetError(errors.Nesting(errors.PhaseEncode, append(e.Path(), name), e.maxDepth))
	}
	if e.err == nil && !p.ready {
		e.SetError(errors.NoPlan(name))
	}
	if e.err == nil {
		p.Format.WriteHeader(e, p)
	}
	e.frames = append(e.frames, frame{name: name, start: start, body: e.cur.Pos(), length: p.Body})
}

// Mark opens a record whose length is checked later by Unmark.
func (e *Encoder) Mark(name string) {
	if e.err == nil && len(e.frames) >= e.maxDepth {
		e.SetError(errors.Nesting(errors.PhaseEncode, append(e.Path(), name), e.maxDepth))
	}
	pos := e.cur.Pos()
	e.frames = append(e.frames, frame{name: name, start: pos, body: pos, length: -1})
}

// End closes the record opened by Begin, checking that the body matched
// the planned length. It returns the first error of the encode, if any.
func (e *Encoder) End() error {
	if len(e.frames) == 0 {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, "End without Begin"))
		return e.err
	}
	return e.Unmark(e.frames[len(e.frames)-1].length)
}

// Unmark closes the innermost record, checking that length bytes were
// written since its body began.
func (e *Encoder) Unmark(length int) error {
	n := len(e.frames)
	if n == 0 {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, "Unmark without Mark"))
		return e.err
	}
	f := e.frames[n-1]
	if e.err == nil {
		e.cur.Align()
		expected := f.body + length<<3
		if pos := e.cur.Pos(); pos != expected {
			e.SetError(errors.NewFramingError(errors.PhaseEncode, f.name, framePath(e.frames[:n-1]), f.start, length, pos, expected))
		}
	}
	e.frames = e.frames[:n-1]
	return e.err
}
