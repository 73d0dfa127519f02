package bits

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadBits(t *testing.T) {
	data := []byte{0b1010_1100, 0b0101_0011, 0xFF, 0x00}

	tests := []struct {
		name   string
		skip   int
		n      int
		signed bool
		want   int32
	}{
		{"zero width", 0, 0, false, 0},
		{"first bit", 0, 1, false, 1},
		{"nibble", 0, 4, false, 0b1010},
		{"nibble signed", 0, 4, true, -6},
		{"straddle", 4, 8, false, 0b1100_0101},
		{"straddle signed", 4, 8, true, -59},
		{"offset 3 width 5", 3, 5, false, 0b01100},
		{"second byte", 8, 8, false, 0x53},
		{"all ones signed", 16, 8, true, -1},
		{"all ones unsigned", 16, 8, false, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(data)
			if err := c.SetPos(tt.skip); err != nil {
				t.Fatalf("SetPos: %v", err)
			}
			got, err := c.ReadBits(tt.n, tt.signed)
			if err != nil {
				t.Fatalf("ReadBits: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadBits(%d, %v) at %d: got %d, want %d", tt.n, tt.signed, tt.skip, got, tt.want)
			}
			if c.Pos() != tt.skip+tt.n {
				t.Errorf("position: got %d, want %d", c.Pos(), tt.skip+tt.n)
			}
		})
	}
}

func TestReadBitsFullWord(t *testing.T) {
	c := New([]byte{0xAC, 0x53, 0xFF, 0x00})
	got, err := c.ReadBits(32, false)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if uint32(got) != 0xAC53FF00 {
		t.Errorf("got 0x%08x, want 0xac53ff00", uint32(got))
	}
}

func TestReadBitsOverrun(t *testing.T) {
	c := New([]byte{0x01})
	if _, err := c.ReadBits(9, false); !errors.Is(err, ErrOverrun) {
		t.Errorf("expected ErrOverrun, got %v", err)
	}
	if c.Pos() != 0 {
		t.Errorf("position moved on failed read: %d", c.Pos())
	}
	if _, err := c.ReadBits(33, false); !errors.Is(err, ErrBitCount) {
		t.Errorf("expected ErrBitCount, got %v", err)
	}
}

// Writing then reading back at the same position returns the value for
// every width and every starting bit offset.
func TestBitFieldRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 2, -2, 0x55555555, -0x55555556, 0x7FFFFFFF, -0x80000000, 12345, -12345}

	for n := 0; n <= MaxField; n++ {
		for offset := 0; offset < 8; offset++ {
			for _, v := range values {
				buf := make([]byte, 8)
				for i := range buf {
					buf[i] = 0xA5
				}
				c := New(buf)
				if err := c.SetPos(offset); err != nil {
					t.Fatal(err)
				}
				if err := c.WriteBits(v, n); err != nil {
					t.Fatalf("WriteBits(%d, %d): %v", v, n, err)
				}
				if err := c.SetPos(offset); err != nil {
					t.Fatal(err)
				}

				u, err := c.ReadBits(n, false)
				if err != nil {
					t.Fatalf("ReadBits: %v", err)
				}
				want := truncate(v, n, false)
				if u != want {
					t.Fatalf("n=%d offset=%d v=%d unsigned: got %d, want %d", n, offset, v, u, want)
				}

				if err := c.SetPos(offset); err != nil {
					t.Fatal(err)
				}
				s, err := c.ReadBits(n, true)
				if err != nil {
					t.Fatalf("ReadBits: %v", err)
				}
				want = truncate(v, n, true)
				if s != want {
					t.Fatalf("n=%d offset=%d v=%d signed: got %d, want %d", n, offset, v, s, want)
				}
			}
		}
	}
}

// Bits outside the written field must be left untouched.
func TestWriteBitsPreservesNeighbours(t *testing.T) {
	buf := []byte{0xFF, 0xFF}
	c := New(buf)
	if err := c.SetPos(3); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteBits(0, 6); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0b1110_0000, 0b0111_1111}) {
		t.Errorf("got %08b %08b", buf[0], buf[1])
	}
}

func TestByteAccessAligns(t *testing.T) {
	c := New([]byte{0xF0, 0x12, 0x34, 0x00})
	if _, err := c.ReadBits(3, false); err != nil {
		t.Fatal(err)
	}
	b, err := c.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x12 {
		t.Errorf("ReadByte: got 0x%02x, want 0x12", b)
	}
	got, err := c.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x34, 0x00}) {
		t.Errorf("ReadBytes: got %x", got)
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", c.Remaining())
	}
	if _, err := c.ReadByte(); !errors.Is(err, ErrOverrun) {
		t.Errorf("expected ErrOverrun, got %v", err)
	}
}

func TestWriteBytes(t *testing.T) {
	buf := make([]byte, 4)
	c := New(buf)
	if err := c.WriteBits(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteBytes([]byte{0xAB, 0xCD}); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteByte(0xEF); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0x80, 0xAB, 0xCD, 0xEF}) {
		t.Errorf("got %x", buf)
	}
	if err := c.WriteByte(0); !errors.Is(err, ErrOverrun) {
		t.Errorf("expected ErrOverrun, got %v", err)
	}
}

func TestIndexByte(t *testing.T) {
	c := New([]byte{'a', 'b', 0, 'c'})
	if got := c.IndexByte(0); got != 2 {
		t.Errorf("IndexByte: got %d, want 2", got)
	}
	if err := c.SetPos(24); err != nil {
		t.Fatal(err)
	}
	if got := c.IndexByte(0); got != -1 {
		t.Errorf("IndexByte: got %d, want -1", got)
	}
}

func TestSetPosBounds(t *testing.T) {
	c := New(make([]byte, 2))
	if err := c.SetPos(16); err != nil {
		t.Errorf("SetPos(end): %v", err)
	}
	if err := c.SetPos(17); !errors.Is(err, ErrOverrun) {
		t.Errorf("SetPos(17): expected ErrOverrun, got %v", err)
	}
	if err := c.SetPos(-1); !errors.Is(err, ErrOverrun) {
		t.Errorf("SetPos(-1): expected ErrOverrun, got %v", err)
	}
}

func truncate(v int32, n int, signed bool) int32 {
	if n == 0 {
		return 0
	}
	if n == MaxField {
		return v
	}
	u := uint32(v) & (1<<uint(n) - 1)
	if signed && u&(1<<uint(n-1)) != 0 {
		u |= ^uint32(0) << uint(n)
	}
	return int32(u)
}
