package coder

import (
	stderrors "errors"

	"github.com/wippyai/swf/coder/internal/bits"
	"github.com/wippyai/swf/errors"
)

// frame is an open record on the decoder or encoder stack.
type frame struct {
	name   string
	start  int // bit position of the header
	body   int // bit position of the first body bit
	length int // body length in bytes, -1 when unknown
}

func (f frame) end() int {
	return f.body + f.length<<3
}

// Decoder reads records from a byte buffer. Errors are sticky: after the
// first failure every read returns a zero value and Err reports the
// failure, so record decoders can be written as straight-line code and
// check once at End.
type Decoder struct {
	cur      *bits.Cursor
	err      error
	charset  charset
	frames   []frame
	maxDepth int
}

// NewDecoder creates a Decoder over a private copy of data.
func NewDecoder(data []byte, opts Options) (*Decoder, error) {
	cs, err := lookupCharset(errors.PhaseDecode, opts.Encoding)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Decoder{
		cur:      bits.New(buf),
		charset:  cs,
		maxDepth: opts.maxDepth(),
	}, nil
}

// NewDecoderWithDefaults creates a Decoder with DefaultOptions.
func NewDecoderWithDefaults(data []byte) *Decoder {
	d, _ := NewDecoder(data, DefaultOptions())
	return d
}

// Err returns the first error encountered.
func (d *Decoder) Err() error {
	return d.err
}

// SetError records err unless an error is already set.
func (d *Decoder) SetError(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *Decoder) fail(err error, n int) {
	switch {
	case stderrors.Is(err, bits.ErrBitCount):
		d.SetError(errors.BitCount(errors.PhaseDecode, n))
	case stderrors.Is(err, bits.ErrOverrun):
		d.SetError(errors.BufferOverrun(errors.PhaseDecode, d.Path(), d.cur.Pos(), n, d.cur.Limit()))
	default:
		d.SetError(err)
	}
}

// SetEncoding selects the text encoding for subsequent string reads.
func (d *Decoder) SetEncoding(name string) error {
	cs, err := lookupCharset(errors.PhaseDecode, name)
	if err != nil {
		return err
	}
	d.charset = cs
	return nil
}

// Encoding returns the name of the text encoding.
func (d *Decoder) Encoding() string {
	return d.charset.name
}

// Data returns the buffer being decoded.
func (d *Decoder) Data() []byte {
	return d.cur.Data()
}

// Pos returns the bit position.
func (d *Decoder) Pos() int {
	return d.cur.Pos()
}

// SetPos moves to an absolute bit position.
func (d *Decoder) SetPos(pos int) {
	if err := d.cur.SetPos(pos); err != nil {
		d.fail(err, pos-d.cur.Pos())
	}
}

// BytePos returns the byte holding the next bit.
func (d *Decoder) BytePos() int {
	return d.cur.Pos() >> 3
}

// Remaining returns the whole bytes between the aligned position and the
// end of the buffer.
func (d *Decoder) Remaining() int {
	return (d.cur.Limit() - ((d.cur.Pos() + 7) &^ 7)) >> 3
}

// EOF reports whether every bit has been consumed.
func (d *Decoder) EOF() bool {
	return d.cur.Remaining() == 0
}

// Align advances to the next byte boundary.
func (d *Decoder) Align() {
	d.cur.Align()
}

// Skip discards n bytes.
func (d *Decoder) Skip(n int) {
	if d.err != nil {
		return
	}
	d.cur.Align()
	if err := d.cur.Check(n << 3); err != nil {
		d.fail(err, n<<3)
		return
	}
	d.SetPos(d.cur.Pos() + n<<3)
}

// ReadBits reads an n bit field, sign-extending when signed is set.
func (d *Decoder) ReadBits(n int, signed bool) int32 {
	if d.err != nil {
		return 0
	}
	v, err := d.cur.ReadBits(n, signed)
	if err != nil {
		d.fail(err, n)
		return 0
	}
	return v
}

// ReadUBits reads an unsigned n bit field.
func (d *Decoder) ReadUBits(n int) uint32 {
	return uint32(d.ReadBits(n, false))
}

// ReadBool reads a single bit.
func (d *Decoder) ReadBool() bool {
	return d.ReadBits(1, false) != 0
}

// ReadU8 reads one byte.
func (d *Decoder) ReadU8() uint8 {
	if d.err != nil {
		return 0
	}
	b, err := d.cur.ReadByte()
	if err != nil {
		d.fail(err, 8)
		return 0
	}
	return b
}

// ReadWord reads an n byte little-endian word, sign-extending when signed
// is set.
func (d *Decoder) ReadWord(n int, signed bool) int32 {
	if d.err != nil {
		return 0
	}
	if n < 1 || n > 4 {
		d.SetError(errors.BitCount(errors.PhaseDecode, n<<3))
		return 0
	}
	b, err := d.cur.ReadBytes(n)
	if err != nil {
		d.fail(err, n<<3)
		return 0
	}
	var v uint32
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	if signed && n < 4 && v&(1<<(n*8-1)) != 0 {
		v |= ^uint32(0) << (n * 8)
	}
	return int32(v)
}

// ReadU16 reads a little-endian uint16.
func (d *Decoder) ReadU16() uint16 {
	return uint16(d.ReadWord(2, false))
}

// ReadS16 reads a little-endian int16.
func (d *Decoder) ReadS16() int16 {
	return int16(d.ReadWord(2, true))
}

// ReadU32 reads a little-endian uint32.
func (d *Decoder) ReadU32() uint32 {
	return uint32(d.ReadWord(4, false))
}

// ReadS32 reads a little-endian int32.
func (d *Decoder) ReadS32() int32 {
	return d.ReadWord(4, true)
}

// PeekU8 returns the next byte without consuming it.
func (d *Decoder) PeekU8() uint8 {
	pos := d.cur.Pos()
	v := d.ReadU8()
	_ = d.cur.SetPos(pos)
	return v
}

// PeekU16 returns the next uint16 without consuming it.
func (d *Decoder) PeekU16() uint16 {
	pos := d.cur.Pos()
	v := d.ReadU16()
	_ = d.cur.SetPos(pos)
	return v
}

// PeekHeader decodes the next header in format f without consuming it.
func (d *Decoder) PeekHeader(f Format) Header {
	pos := d.cur.Pos()
	h := f.ReadHeader(d)
	_ = d.cur.SetPos(pos)
	return h
}

// ReadBytes reads n bytes.
func (d *Decoder) ReadBytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	b, err := d.cur.ReadBytes(n)
	if err != nil {
		d.fail(err, n<<3)
		return nil
	}
	return b
}

// ReadString reads a string stored in exactly n bytes.
func (d *Decoder) ReadString(n int) string {
	b := d.ReadBytes(n)
	if d.err != nil {
		return ""
	}
	s, err := d.charset.decode(b)
	if err != nil {
		d.SetError(err)
		return ""
	}
	return s
}

// ReadCString reads a zero-terminated string and consumes the terminator.
func (d *Decoder) ReadCString() string {
	if d.err != nil {
		return ""
	}
	n := d.cur.IndexByte(0)
	if n < 0 {
		d.cur.Align()
		d.fail(bits.ErrOverrun, d.cur.Remaining()+8)
		return ""
	}
	s := d.ReadString(n)
	d.Skip(1)
	return s
}

// FindBits searches forward in steps of step bits for an n bit field equal
// to value. On success the position is left at the start of the match.
// Otherwise the position is unchanged and FindBits returns false.
func (d *Decoder) FindBits(value int32, n, step int) bool {
	if d.err != nil || step <= 0 {
		return false
	}
	if n < 0 || n > bits.MaxField {
		d.SetError(errors.BitCount(errors.PhaseDecode, n))
		return false
	}
	want := uint32(value)
	if n < bits.MaxField {
		want &= 1<<uint(n) - 1
	}
	mark := d.cur.Pos()
	for pos := mark; pos+n <= d.cur.Limit(); pos += step {
		_ = d.cur.SetPos(pos)
		if v, err := d.cur.PeekBits(n); err == nil && v == want {
			return true
		}
	}
	_ = d.cur.SetPos(mark)
	return false
}

// Path returns the names of the open records, outermost first.
func (d *Decoder) Path() []string {
	return framePath(d.frames)
}

// Depth returns the number of open records.
func (d *Decoder) Depth() int {
	return len(d.frames)
}

// Begin reads a header in format f and opens a record named name. The
// declared length must fit in the nearest enclosing record whose length is
// known, or in the remaining buffer when there is none. A terminal header takes the
// rest of the enclosing record. Every Begin must be paired with End.
func (d *Decoder) Begin(name string, f Format) Header {
	start := d.cur.Pos()
	if d.err == nil && len(d.frames) >= d.maxDepth {
		d.SetError(errors.Nesting(errors.PhaseDecode, append(d.Path(), name), d.maxDepth))
	}
	var h Header
	if d.err == nil {
		h = f.ReadHeader(d)
	}
	fr := frame{name: name, start: start, body: d.cur.Pos(), length: h.Length}
	if d.err != nil {
		fr.length = 0
		d.frames = append(d.frames, fr)
		return Header{}
	}
	limit := d.cur.Limit()
	for i := len(d.frames) - 1; i >= 0; i-- {
		if d.frames[i].length >= 0 {
			limit = d.frames[i].end()
			break
		}
	}
	if h.Terminal {
		fr.length = (limit - fr.body) >> 3
		h.Length = fr.length
	}
	if fr.end() > limit {
		d.SetError(errors.NewFramingError(errors.PhaseDecode, name, d.Path(), start, h.Length, limit, fr.end()))
	}
	d.frames = append(d.frames, fr)
	return h
}

// Mark opens a record whose length is checked later by Unmark.
func (d *Decoder) Mark(name string) {
	if d.err == nil && len(d.frames) >= d.maxDepth {
		d.SetError(errors.Nesting(errors.PhaseDecode, append(d.Path(), name), d.maxDepth))
	}
	pos := d.cur.Pos()
	d.frames = append(d.frames, frame{name: name, start: pos, body: pos, length: -1})
}

// Consumed returns the whole bytes read since the innermost record's body
// began.
func (d *Decoder) Consumed() int {
	if len(d.frames) == 0 {
		return d.cur.Pos() >> 3
	}
	return (d.cur.Pos() - d.frames[len(d.frames)-1].body) >> 3
}

// Left returns the bytes remaining in the innermost record with a known
// length, or in the buffer when there is none.
func (d *Decoder) Left() int {
	for i := len(d.frames) - 1; i >= 0; i-- {
		if f := d.frames[i]; f.length >= 0 {
			left := (f.end() - d.cur.Pos()) >> 3
			if left < 0 {
				return 0
			}
			return left
		}
	}
	return d.Remaining()
}

// End closes the record opened by Begin, checking that exactly the
// declared number of bytes was consumed. It returns the first error of the
// decode, if any.
func (d *Decoder) End() error {
	if len(d.frames) == 0 {
		d.SetError(errors.InvalidInput(errors.PhaseDecode, "End without Begin"))
		return d.err
	}
	return d.Unmark(d.frames[len(d.frames)-1].length)
}

// Unmark closes the innermost record, checking that length bytes were
// consumed since its body began.
func (d *Decoder) Unmark(length int) error {
	n := len(d.frames)
	if n == 0 {
		d.SetError(errors.InvalidInput(errors.PhaseDecode, "Unmark without Mark"))
		return d.err
	}
	f := d.frames[n-1]
	if d.err == nil {
		d.cur.Align()
		expected := f.body + length<<3
		if pos := d.cur.Pos(); pos != expected {
			d.SetError(errors.NewFramingError(errors.PhaseDecode, f.name, framePath(d.frames[:n-1]), f.start, length, pos, expected))
		}
	}
	d.frames = d.frames[:n-1]
	return d.err
}

func framePath(frames []frame) []string {
	if len(frames) == 0 {
		return nil
	}
	path := make([]string, len(frames))
	for i, f := range frames {
		path[i] = f.name
	}
	return path
}
