package movie

import (
	"fmt"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

// Bounds is a rectangle in twips.
type Bounds struct {
	MinX, MaxX int32
	MinY, MaxY int32
}

// ReadBounds decodes a bit-packed rectangle.
func ReadBounds(d *coder.Decoder) Bounds {
	n := int(d.ReadUBits(5))
	var b Bounds
	b.MinX = d.ReadBits(n, true)
	b.MaxX = d.ReadBits(n, true)
	b.MinY = d.ReadBits(n, true)
	b.MaxY = d.ReadBits(n, true)
	d.Align()
	return b
}

func (b Bounds) fieldBits() int {
	return coder.SignedBits(b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// Size returns the encoded size in bytes.
func (b Bounds) Size() int {
	return (5 + 4*b.fieldBits() + 7) >> 3
}

// Write encodes the rectangle.
func (b Bounds) Write(e *coder.Encoder) {
	n := b.fieldBits()
	if n > 31 {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("bounds need %d bit fields", n)))
		return
	}
	e.WriteUBits(uint32(n), 5)
	e.WriteBits(b.MinX, n)
	e.WriteBits(b.MaxX, n)
	e.WriteBits(b.MinY, n)
	e.WriteBits(b.MaxY, n)
	e.Align()
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d %d,%d]", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// Pair holds the two terms of a scale or shear in 16.16 fixed point.
type Pair struct {
	X, Y int32
}

// CoordTransform is a 2D affine transform. Scale and Shear are omitted
// from the encoding when nil.
type CoordTransform struct {
	Scale      *Pair
	Shear      *Pair
	TranslateX int32
	TranslateY int32
}

// Translate returns a transform that only moves by x, y twips.
func Translate(x, y int32) CoordTransform {
	return CoordTransform{TranslateX: x, TranslateY: y}
}

// ReadCoordTransform decodes a bit-packed transform.
func ReadCoordTransform(d *coder.Decoder) CoordTransform {
	var t CoordTransform
	if d.ReadBool() {
		n := int(d.ReadUBits(5))
		t.Scale = &Pair{X: d.ReadBits(n, true), Y: d.ReadBits(n, true)}
	}
	if d.ReadBool() {
		n := int(d.ReadUBits(5))
		t.Shear = &Pair{X: d.ReadBits(n, true), Y: d.ReadBits(n, true)}
	}
	n := int(d.ReadUBits(5))
	t.TranslateX = d.ReadBits(n, true)
	t.TranslateY = d.ReadBits(n, true)
	d.Align()
	return t
}

func (t CoordTransform) bitLen() int {
	n := 2 + 5 + 2*coder.SignedBits(t.TranslateX, t.TranslateY)
	if t.Scale != nil {
		n += 5 + 2*coder.SignedBits(t.Scale.X, t.Scale.Y)
	}
	if t.Shear != nil {
		n += 5 + 2*coder.SignedBits(t.Shear.X, t.Shear.Y)
	}
	return n
}

// Size returns the encoded size in bytes.
func (t CoordTransform) Size() int {
	return (t.bitLen() + 7) >> 3
}

// Write encodes the transform.
func (t CoordTransform) Write(e *coder.Encoder) {
	writePair := func(p *Pair) {
		e.WriteBool(p != nil)
		if p != nil {
			n := coder.SignedBits(p.X, p.Y)
			writeWidth(e, n, 5)
			e.WriteBits(p.X, n)
			e.WriteBits(p.Y, n)
		}
	}
	writePair(t.Scale)
	writePair(t.Shear)
	n := coder.SignedBits(t.TranslateX, t.TranslateY)
	writeWidth(e, n, 5)
	e.WriteBits(t.TranslateX, n)
	e.WriteBits(t.TranslateY, n)
	e.Align()
}

// writeWidth writes a field width, failing when it does not fit in size bits.
func writeWidth(e *coder.Encoder, n, size int) {
	if n >= 1<<size {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("field width %d does not fit in %d bits", n, size)))
		return
	}
	e.WriteUBits(uint32(n), size)
}

// Color is an RGB colour with an alpha channel. Alpha is only coded
// inside records that mark colours as transparent, and reads as 255
// elsewhere.
type Color struct {
	R, G, B, A uint8
}

// ReadColor decodes a colour.
func ReadColor(d *coder.Decoder, ctx *coder.Context) Color {
	c := Color{R: d.ReadU8(), G: d.ReadU8(), B: d.ReadU8(), A: 0xFF}
	if ctx.Get(coder.KeyTransparent) != 0 {
		c.A = d.ReadU8()
	}
	return c
}

// Size returns the encoded size in bytes.
func (c Color) Size(ctx *coder.Context) int {
	if ctx.Get(coder.KeyTransparent) != 0 {
		return 4
	}
	return 3
}

// Write encodes the colour.
func (c Color) Write(e *coder.Encoder, ctx *coder.Context) {
	e.WriteU8(c.R)
	e.WriteU8(c.G)
	e.WriteU8(c.B)
	if ctx.Get(coder.KeyTransparent) != 0 {
		e.WriteU8(c.A)
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ColorTerms are the per-channel terms of a colour transform. Multiply
// terms are 8.8 fixed point.
type ColorTerms struct {
	R, G, B, A int32
}

// ColorTransform adjusts colours by multiplying then adding. A nil part is
// omitted from the encoding. The alpha terms are coded only when colours
// are transparent.
type ColorTransform struct {
	Multiply *ColorTerms
	Add      *ColorTerms
}

// ReadColorTransform decodes a bit-packed colour transform.
func ReadColorTransform(d *coder.Decoder, ctx *coder.Context) ColorTransform {
	var t ColorTransform
	hasAdd := d.ReadBool()
	hasMultiply := d.ReadBool()
	n := int(d.ReadUBits(4))
	alpha := ctx.Get(coder.KeyTransparent) != 0
	read := func() *ColorTerms {
		c := &ColorTerms{R: d.ReadBits(n, true), G: d.ReadBits(n, true), B: d.ReadBits(n, true)}
		if alpha {
			c.A = d.ReadBits(n, true)
		}
		return c
	}
	if hasMultiply {
		t.Multiply = read()
	}
	if hasAdd {
		t.Add = read()
	}
	d.Align()
	return t
}

func (t ColorTransform) fieldBits(alpha bool) int {
	n := 0
	for _, c := range []*ColorTerms{t.Multiply, t.Add} {
		if c == nil {
			continue
		}
		w := coder.SignedBits(c.R, c.G, c.B)
		if alpha {
			w = max(w, coder.SignedBits(c.A))
		}
		n = max(n, w)
	}
	return n
}

func (t ColorTransform) terms(alpha bool) int {
	per := 3
	if alpha {
		per = 4
	}
	n := 0
	if t.Multiply != nil {
		n += per
	}
	if t.Add != nil {
		n += per
	}
	return n
}

// Size returns the encoded size in bytes.
func (t ColorTransform) Size(ctx *coder.Context) int {
	alpha := ctx.Get(coder.KeyTransparent) != 0
	return (6 + t.terms(alpha)*t.fieldBits(alpha) + 7) >> 3
}

// Write encodes the colour transform.
func (t ColorTransform) Write(e *coder.Encoder, ctx *coder.Context) {
	alpha := ctx.Get(coder.KeyTransparent) != 0
	n := t.fieldBits(alpha)
	e.WriteBool(t.Add != nil)
	e.WriteBool(t.Multiply != nil)
	writeWidth(e, n, 4)
	write := func(c *ColorTerms) {
		if c == nil {
			return
		}
		e.WriteBits(c.R, n)
		e.WriteBits(c.G, n)
		e.WriteBits(c.B, n)
		if alpha {
			e.WriteBits(c.A, n)
		}
	}
	write(t.Multiply)
	write(t.Add)
	e.Align()
}

// Bitmap fill kinds used by morphing shapes.
const (
	FillTiledBitmap       = 0x40
	FillClippedBitmap     = 0x41
	FillUnsmoothedTiled   = 0x42
	FillUnsmoothedClipped = 0x43
)

// MorphBitmapFill fills a morphing shape with an image whose placement is
// interpolated between a start and an end transform.
type MorphBitmapFill struct {
	Kind   uint8
	Bitmap uint16
	Start  CoordTransform
	End    CoordTransform
}

// ReadMorphBitmapFill decodes a bitmap fill style, including its kind byte.
func ReadMorphBitmapFill(d *coder.Decoder) MorphBitmapFill {
	f := MorphBitmapFill{Kind: d.ReadU8()}
	if f.Kind < FillTiledBitmap || f.Kind > FillUnsmoothedClipped {
		d.SetError(errors.InvalidData(errors.PhaseDecode, d.Path(), fmt.Sprintf("fill kind 0x%02x is not a bitmap fill", f.Kind)))
		return MorphBitmapFill{}
	}
	f.Bitmap = d.ReadU16()
	f.Start = ReadCoordTransform(d)
	f.End = ReadCoordTransform(d)
	return f
}

// Tiled reports whether the image repeats to fill the shape.
func (f MorphBitmapFill) Tiled() bool { return f.Kind&1 == 0 }

// Smoothed reports whether the image is smoothed when scaled.
func (f MorphBitmapFill) Smoothed() bool { return f.Kind&2 == 0 }

// Size returns the encoded size in bytes.
func (f MorphBitmapFill) Size() int {
	return 3 + f.Start.Size() + f.End.Size()
}

// Write encodes the fill style.
func (f MorphBitmapFill) Write(e *coder.Encoder) {
	e.WriteU8(f.Kind)
	e.WriteU16(f.Bitmap)
	f.Start.Write(e)
	f.End.Write(e)
}
