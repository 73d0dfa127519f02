// Package bits implements the bit-granular cursor shared by the decoder and
// encoder. Positions are a single bit offset from the start of the buffer;
// byte index and bit-in-byte are derived from it.
package bits

import (
	"errors"
)

var (
	// ErrOverrun is returned when an access would pass the end of the buffer.
	ErrOverrun = errors.New("bits: buffer overrun")
	// ErrBitCount is returned for field widths outside 0..32.
	ErrBitCount = errors.New("bits: field width out of range")
)

// MaxField is the widest bit field a single access can transfer.
const MaxField = 32

// Cursor is a bit position over an owned, fixed-size byte slice.
// Bits are numbered most significant first within each byte.
type Cursor struct {
	data []byte
	pos  int
}

// New creates a Cursor over data. The slice is used in place.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Data returns the underlying buffer.
func (c *Cursor) Data() []byte {
	return c.data
}

// Pos returns the current bit position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Limit returns the size of the buffer in bits.
func (c *Cursor) Limit() int {
	return len(c.data) << 3
}

// Remaining returns the number of bits between the cursor and the end.
func (c *Cursor) Remaining() int {
	return c.Limit() - c.pos
}

// SetPos moves the cursor to an absolute bit position.
func (c *Cursor) SetPos(pos int) error {
	if pos < 0 || pos > c.Limit() {
		return ErrOverrun
	}
	c.pos = pos
	return nil
}

// Aligned reports whether the cursor sits on a byte boundary.
func (c *Cursor) Aligned() bool {
	return c.pos&7 == 0
}

// Align advances to the next byte boundary if not already on one.
func (c *Cursor) Align() {
	c.pos = (c.pos + 7) &^ 7
	if c.pos > c.Limit() {
		c.pos = c.Limit()
	}
}

// Check reports whether n more bits are available.
func (c *Cursor) Check(n int) error {
	if n < 0 || c.pos+n > c.Limit() {
		return ErrOverrun
	}
	return nil
}

// ReadBits reads the next n bits. Signed values are sign-extended from
// bit n-1. Reading zero bits returns zero without moving.
func (c *Cursor) ReadBits(n int, signed bool) (int32, error) {
	if n < 0 || n > MaxField {
		return 0, ErrBitCount
	}
	if n == 0 {
		return 0, nil
	}
	if err := c.Check(n); err != nil {
		return 0, err
	}
	v := uint32(c.peek(n))
	c.pos += n
	if signed && n < MaxField && v&(1<<(n-1)) != 0 {
		v |= ^uint32(0) << n
	}
	return int32(v), nil
}

// PeekBits returns the next n bits unsigned without moving the cursor.
func (c *Cursor) PeekBits(n int) (uint32, error) {
	if n < 0 || n > MaxField {
		return 0, ErrBitCount
	}
	if n == 0 {
		return 0, nil
	}
	if err := c.Check(n); err != nil {
		return 0, err
	}
	return uint32(c.peek(n)), nil
}

// peek assembles the bytes spanned by the next n bits (at most five) and
// drops the bits outside the field.
func (c *Cursor) peek(n int) uint64 {
	first := c.pos >> 3
	last := (c.pos + n - 1) >> 3
	var acc uint64
	for i := first; i <= last; i++ {
		acc = acc<<8 | uint64(c.data[i])
	}
	acc >>= uint((last+1)<<3 - (c.pos + n))
	return acc & (1<<uint(n) - 1)
}

// WriteBits writes the low n bits of v, most significant first.
func (c *Cursor) WriteBits(v int32, n int) error {
	if n < 0 || n > MaxField {
		return ErrBitCount
	}
	if err := c.Check(n); err != nil {
		return err
	}
	u := uint32(v)
	for i := n - 1; i >= 0; i-- {
		idx := c.pos >> 3
		mask := byte(0x80) >> uint(c.pos&7)
		if (u>>uint(i))&1 != 0 {
			c.data[idx] |= mask
		} else {
			c.data[idx] &^= mask
		}
		c.pos++
	}
	return nil
}

// ReadByte aligns and reads one byte.
func (c *Cursor) ReadByte() (byte, error) {
	c.Align()
	if err := c.Check(8); err != nil {
		return 0, err
	}
	b := c.data[c.pos>>3]
	c.pos += 8
	return b, nil
}

// WriteByte aligns and writes one byte.
func (c *Cursor) WriteByte(b byte) error {
	c.Align()
	if err := c.Check(8); err != nil {
		return err
	}
	c.data[c.pos>>3] = b
	c.pos += 8
	return nil
}

// ReadBytes aligns and returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	c.Align()
	if err := c.Check(n << 3); err != nil {
		return nil, err
	}
	start := c.pos >> 3
	buf := make([]byte, n)
	copy(buf, c.data[start:start+n])
	c.pos += n << 3
	return buf, nil
}

// WriteBytes aligns and copies b into the buffer.
func (c *Cursor) WriteBytes(b []byte) error {
	c.Align()
	if err := c.Check(len(b) << 3); err != nil {
		return err
	}
	copy(c.data[c.pos>>3:], b)
	c.pos += len(b) << 3
	return nil
}

// IndexByte returns the number of bytes between the aligned cursor and the
// next occurrence of b, or -1 when b does not occur.
func (c *Cursor) IndexByte(b byte) int {
	start := (c.pos + 7) >> 3
	for i := start; i < len(c.data); i++ {
		if c.data[i] == b {
			return i - start
		}
	}
	return -1
}
