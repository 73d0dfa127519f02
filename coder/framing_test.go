package coder

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"github.com/wippyai/swf/errors"
)

func TestTagHeaderSize(t *testing.T) {
	tests := []struct {
		body     int
		extended bool
		want     int
	}{
		{0, false, 2},
		{62, false, 2},
		{63, false, 6},
		{0x10000, false, 6},
		{0, true, 6},
	}
	for _, tt := range tests {
		if got := TagFormat.HeaderSize(1, tt.body, tt.extended); got != tt.want {
			t.Errorf("HeaderSize(%d, %v): got %d, want %d", tt.body, tt.extended, got, tt.want)
		}
	}
}

func TestTagHeaderBoundary(t *testing.T) {
	tests := []struct {
		body   int
		header []byte
	}{
		{62, []byte{0x7E, 0x02}},
		{63, []byte{0x7F, 0x02, 63, 0, 0, 0}},
	}
	for _, tt := range tests {
		o := &Opaque{Format: TagFormat, TypeCode: 9, Data: make([]byte, tt.body)}
		got, err := Marshal(o, NewContext(nil, nil), DefaultOptions())
		if err != nil {
			t.Fatalf("Marshal body %d: %v", tt.body, err)
		}
		if !bytes.HasPrefix(got, tt.header) {
			t.Errorf("body %d: header got % x, want % x", tt.body, got[:len(tt.header)], tt.header)
		}
		if len(got) != len(tt.header)+tt.body {
			t.Errorf("body %d: length got %d, want %d", tt.body, len(got), len(tt.header)+tt.body)
		}
	}
}

func TestDecodeShortAndExtended(t *testing.T) {
	for _, in := range []string{"c2000100", "ff00020000000100"} {
		r, err := Unmarshal(mustHex(in), idRegistry(), NewContext(nil, nil), DefaultOptions())
		if err != nil {
			t.Fatalf("Unmarshal %s: %v", in, err)
		}
		got, ok := r.(*idRecord)
		if !ok {
			t.Fatalf("Unmarshal %s: got %T, want *idRecord", in, r)
		}
		if got.code != 3 || got.id != 1 {
			t.Errorf("Unmarshal %s: got code %d id %d, want 3 1", in, got.code, got.id)
		}
	}
}

func TestEncodeShort(t *testing.T) {
	got, err := Marshal(&idRecord{code: 3, id: 1}, NewContext(nil, nil), DefaultOptions())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := mustHex("c2000100"); !bytes.Equal(got, want) {
		t.Errorf("Marshal: got % x, want % x", got, want)
	}
}

func TestOpaqueRoundTrip(t *testing.T) {
	tests := []string{
		"c2000100",
		"ff00020000000100",
		"4000",
		"0000",
		"bf0f0100000007",
	}
	reg := NewRegistry(TagFormat)
	for _, in := range tests {
		data := mustHex(in)
		r, err := Unmarshal(data, reg, NewContext(nil, nil), DefaultOptions())
		if err != nil {
			t.Fatalf("Unmarshal %s: %v", in, err)
		}
		if _, ok := r.(*Opaque); !ok {
			t.Fatalf("Unmarshal %s: got %T, want *Opaque", in, r)
		}
		got, err := Marshal(r, NewContext(nil, nil), DefaultOptions())
		if err != nil {
			t.Fatalf("Marshal %s: %v", in, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("round trip %s: got % x", in, got)
		}
	}
}

func TestNegativeExtendedLength(t *testing.T) {
	d := NewDecoderWithDefaults(mustHex("ff0000000080"))
	_, err := idRegistry().Decode(d, NewContext(nil, nil))
	var fe *errors.FramingError
	if !stderrors.As(err, &fe) {
		t.Fatalf("expected FramingError, got %v", err)
	}
	if fe.Length >= 0 {
		t.Errorf("Length: got %d, want negative", fe.Length)
	}
}

func TestLengthExceedsBuffer(t *testing.T) {
	d := NewDecoderWithDefaults(mustHex("c4000100"))
	_, err := idRegistry().Decode(d, NewContext(nil, nil))
	if errors.KindOf(err) != errors.KindFraming {
		t.Fatalf("expected framing error, got %v", err)
	}
}

func TestFramingUnderrun(t *testing.T) {
	// Free declaring a 3 byte body that only reads 2.
	d := NewDecoderWithDefaults(mustHex("c300010000"))
	_, err := idRegistry().Decode(d, NewContext(nil, nil))
	var fe *errors.FramingError
	if !stderrors.As(err, &fe) {
		t.Fatalf("expected FramingError, got %v", err)
	}
	if fe.Record != "id" || fe.Offset != 0 || fe.Length != 3 || fe.Delta != -1 {
		t.Errorf("got %+v, want record id offset 0 length 3 delta -1", fe)
	}
}

func TestFramingPathNamesEnclosingRecords(t *testing.T) {
	// inner declares 3 bytes and reads 2, inside an outer record of 6.
	d := NewDecoderWithDefaults(mustHex("800600" + "810300" + "0100" + "00"))
	d.Begin("outer", ActionFormat)
	d.Begin("inner", ActionFormat)
	d.ReadU16()
	err := d.End()
	var fe *errors.FramingError
	if !stderrors.As(err, &fe) {
		t.Fatalf("expected FramingError, got %v", err)
	}
	if fe.Record != "inner" || fe.Offset != 3 || fe.Length != 3 || fe.Delta != -1 {
		t.Errorf("got %+v, want record inner offset 3 length 3 delta -1", fe)
	}
	if !reflect.DeepEqual(fe.Path, []string{"outer"}) {
		t.Errorf("path: got %v, want [outer]", fe.Path)
	}
	if strings.Contains(err.Error(), "outer.inner") {
		t.Errorf("message repeats the failing record: %s", err)
	}
	if d.Depth() != 1 {
		t.Errorf("depth after End: got %d, want 1", d.Depth())
	}
}

func TestLengthBoundedByMarkedParent(t *testing.T) {
	// outer holds 5 bytes; inner sits in an unsized run inside it and
	// claims 4 bytes where only 2 remain, although the buffer has more.
	d := NewDecoderWithDefaults(mustHex("800500" + "810400" + "aabbccddee"))
	d.Begin("outer", ActionFormat)
	d.Mark("body")
	d.Begin("inner", ActionFormat)
	var fe *errors.FramingError
	if !stderrors.As(d.Err(), &fe) {
		t.Fatalf("expected FramingError, got %v", d.Err())
	}
	if fe.Record != "inner" || fe.Offset != 3 || fe.Length != 4 || fe.Delta != -2 {
		t.Errorf("got %+v, want record inner offset 3 length 4 delta -2", fe)
	}
	if !reflect.DeepEqual(fe.Path, []string{"outer", "body"}) {
		t.Errorf("path: got %v, want [outer body]", fe.Path)
	}
}

func TestEncodeWithoutPlan(t *testing.T) {
	e := NewEncoderWithDefaults(4)
	err := (&idRecord{code: 3, id: 1}).Encode(e, Plan{}, NewContext(nil, nil))
	if errors.KindOf(err) != errors.KindNoPlan {
		t.Fatalf("zero plan: expected no_plan, got %v", err)
	}

	p := NewPlan(TagFormat, 9, 2)
	err = (&idRecord{code: 3, id: 1}).Encode(e, p, NewContext(nil, nil))
	if errors.KindOf(err) != errors.KindNoPlan {
		t.Fatalf("mismatched plan: expected no_plan, got %v", err)
	}
}

func TestActionFormat(t *testing.T) {
	d := NewDecoderWithDefaults([]byte{0x0A, 0x83, 0x02, 0x00, 0x61, 0x00})
	h := d.Begin("add", ActionFormat)
	if h.Code != 0x0A || h.Length != 0 || h.Size != 1 {
		t.Errorf("short action: got %+v", h)
	}
	if err := d.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	h = d.Begin("geturl", ActionFormat)
	if h.Code != 0x83 || h.Length != 2 || h.Size != 3 {
		t.Errorf("long action: got %+v", h)
	}
	if s := d.ReadCString(); s != "a" {
		t.Errorf("ReadCString: got %q, want %q", s, "a")
	}
	if err := d.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	e := NewEncoderWithDefaults(1)
	e.Begin("bad", NewPlan(ActionFormat, 0x0A, 1))
	if errors.KindOf(e.Err()) != errors.KindInvalidInput {
		t.Errorf("short action with body: got %v", e.Err())
	}
}

func TestOffsetFormatTerminal(t *testing.T) {
	// Tag 34 with a 4 byte body holding one terminal offset record.
	d := NewDecoderWithDefaults(mustHex("84080000aabb"))
	d.Begin("outer", TagFormat)
	h := d.Begin("handler", OffsetFormat)
	if !h.Terminal || h.Length != 2 {
		t.Errorf("header: got %+v, want terminal length 2", h)
	}
	if v := d.ReadU16(); v != 0xBBAA {
		t.Errorf("ReadU16: got 0x%04x, want 0xbbaa", v)
	}
	if err := d.End(); err != nil {
		t.Fatalf("End handler: %v", err)
	}
	if err := d.End(); err != nil {
		t.Fatalf("End outer: %v", err)
	}

	p := NewPlan(OffsetFormat, 0, 2).Last()
	if p.Declared() != TerminalLength {
		t.Errorf("Declared: got %d, want %d", p.Declared(), TerminalLength)
	}
	e := NewEncoderWithDefaults(p.Length())
	e.Begin("handler", p)
	e.WriteU16(0xBBAA)
	if err := e.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if want := mustHex("0000aabb"); !bytes.Equal(e.Data(), want) {
		t.Errorf("terminal encode: got % x, want % x", e.Data(), want)
	}
}

func TestNestingLimit(t *testing.T) {
	d, err := NewDecoder([]byte{0}, Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	d.Mark("a")
	d.Mark("b")
	if d.Err() != nil {
		t.Fatalf("depth 2: %v", d.Err())
	}
	d.Mark("c")
	if errors.KindOf(d.Err()) != errors.KindNesting {
		t.Fatalf("depth 3: expected nesting error, got %v", d.Err())
	}
	d.Unmark(0)
	d.Unmark(0)
	d.Unmark(0)
	if d.Depth() != 0 {
		t.Errorf("Depth after unwinding: got %d, want 0", d.Depth())
	}
}

func TestPackedField(t *testing.T) {
	length, code := TagWord.Split(0x00C2)
	if length != 2 || code != 3 {
		t.Errorf("TagWord.Split: got %d %d, want 2 3", length, code)
	}
	if got := TagWord.Join(ExtendedMarker, 3); got != 0x00FF {
		t.Errorf("TagWord.Join: got 0x%04x, want 0x00ff", got)
	}

	event := PackedField{Shift: 9, Width: 7}
	word := event.Join(0x0108, 0x0D)
	if word != 0x1B08 {
		t.Errorf("event Join: got 0x%04x, want 0x1b08", word)
	}
	flags, key := event.Split(word)
	if flags != 0x0108 || key != 0x0D {
		t.Errorf("event Split: got 0x%03x %d", flags, key)
	}
	if event.Fits(0, 0x80) {
		t.Error("Fits: key 0x80 does not fit in 7 bits")
	}
	if !event.Fits(0x1FF, 0x7F) {
		t.Error("Fits: maximal flags and key should fit")
	}
}

func TestSignedBits(t *testing.T) {
	tests := []struct {
		values []int32
		want   int
	}{
		{nil, 0},
		{[]int32{0, 0}, 0},
		{[]int32{1}, 2},
		{[]int32{-1}, 1},
		{[]int32{1, 2}, 3},
		{[]int32{-2}, 2},
		{[]int32{20, 40}, 7},
		{[]int32{-0x80000000}, 32},
	}
	for _, tt := range tests {
		if got := SignedBits(tt.values...); got != tt.want {
			t.Errorf("SignedBits(%v): got %d, want %d", tt.values, got, tt.want)
		}
	}
}

func TestUnsignedBits(t *testing.T) {
	tests := []struct {
		values []uint32
		want   int
	}{
		{nil, 0},
		{[]uint32{0}, 0},
		{[]uint32{1}, 1},
		{[]uint32{255, 3}, 8},
		{[]uint32{0xFFFFFFFF}, 32},
	}
	for _, tt := range tests {
		if got := UnsignedBits(tt.values...); got != tt.want {
			t.Errorf("UnsignedBits(%v): got %d, want %d", tt.values, got, tt.want)
		}
	}
}
