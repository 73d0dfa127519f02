package movie

import (
	"fmt"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

// textPadding is the run of zero bytes some authoring tools write between
// the bounds and the transform of a text definition.
const textPadding = 16

// GlyphIndex is one character of a text span: the glyph's index in the
// font and the distance to the next character in twips.
type GlyphIndex struct {
	Glyph   uint32
	Advance int32
}

// TextSpan is a run of characters sharing a style. Style fields left nil
// are inherited from the preceding span.
type TextSpan struct {
	Font    *uint16
	Height  uint16 // twips, coded only with Font
	Color   *Color
	OffsetX *int16
	OffsetY *int16
	Glyphs  []GlyphIndex
}

const (
	spanHasFont    = 0x08
	spanHasColor   = 0x04
	spanHasOffsetY = 0x02
	spanHasOffsetX = 0x01
	spanType       = 0x80
)

// ReadTextSpan decodes a span using the glyph field widths in ctx.
func ReadTextSpan(d *coder.Decoder, ctx *coder.Context) TextSpan {
	var s TextSpan
	flags := d.ReadU8()
	if flags&spanHasFont != 0 {
		font := d.ReadU16()
		s.Font = &font
	}
	if flags&spanHasColor != 0 {
		c := ReadColor(d, ctx)
		s.Color = &c
	}
	if flags&spanHasOffsetX != 0 {
		x := d.ReadS16()
		s.OffsetX = &x
	}
	if flags&spanHasOffsetY != 0 {
		y := d.ReadS16()
		s.OffsetY = &y
	}
	if flags&spanHasFont != 0 {
		s.Height = d.ReadU16()
	}
	count := int(d.ReadU8())
	glyphBits := int(ctx.Get(coder.KeyGlyphSize))
	advanceBits := int(ctx.Get(coder.KeyAdvanceSize))
	for i := 0; i < count && d.Err() == nil; i++ {
		s.Glyphs = append(s.Glyphs, GlyphIndex{
			Glyph:   d.ReadUBits(glyphBits),
			Advance: d.ReadBits(advanceBits, true),
		})
	}
	d.Align()
	return s
}

func (s TextSpan) flags() uint8 {
	f := uint8(spanType)
	if s.Font != nil {
		f |= spanHasFont
	}
	if s.Color != nil {
		f |= spanHasColor
	}
	if s.OffsetY != nil {
		f |= spanHasOffsetY
	}
	if s.OffsetX != nil {
		f |= spanHasOffsetX
	}
	return f
}

// Size returns the encoded size in bytes using the field widths in ctx.
func (s TextSpan) Size(ctx *coder.Context) int {
	n := 2
	if s.Font != nil {
		n += 4
	}
	if s.Color != nil {
		n += s.Color.Size(ctx)
	}
	if s.OffsetX != nil {
		n += 2
	}
	if s.OffsetY != nil {
		n += 2
	}
	bits := int(ctx.Get(coder.KeyGlyphSize) + ctx.Get(coder.KeyAdvanceSize))
	return n + (len(s.Glyphs)*bits+7)>>3
}

// Write encodes the span using the field widths in ctx.
func (s TextSpan) Write(e *coder.Encoder, ctx *coder.Context) {
	if len(s.Glyphs) > 0xFF {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("text span of %d glyphs exceeds 255", len(s.Glyphs))))
		return
	}
	e.WriteU8(s.flags())
	if s.Font != nil {
		e.WriteU16(*s.Font)
	}
	if s.Color != nil {
		s.Color.Write(e, ctx)
	}
	if s.OffsetX != nil {
		e.WriteS16(*s.OffsetX)
	}
	if s.OffsetY != nil {
		e.WriteS16(*s.OffsetY)
	}
	if s.Font != nil {
		e.WriteU16(s.Height)
	}
	e.WriteU8(uint8(len(s.Glyphs)))
	glyphBits := int(ctx.Get(coder.KeyGlyphSize))
	advanceBits := int(ctx.Get(coder.KeyAdvanceSize))
	for _, g := range s.Glyphs {
		e.WriteUBits(g.Glyph, glyphBits)
		e.WriteBits(g.Advance, advanceBits)
	}
	e.Align()
}

// DefineText2 defines static text whose colours carry alpha.
//
// GlyphBits and AdvanceBits are the field widths the glyphs were coded
// with. Encoding widens them when a glyph needs more bits.
type DefineText2 struct {
	Identifier  uint16
	Bounds      Bounds
	Transform   CoordTransform
	GlyphBits   uint8
	AdvanceBits uint8
	Spans       []TextSpan
	// Padded keeps the zero run some tools write after the bounds.
	Padded bool
}

func decodeDefineText2(d *coder.Decoder, ctx *coder.Context) (coder.Record, error) {
	d.Begin("DefineText2", coder.TagFormat)
	t := &DefineText2{Identifier: d.ReadU16(), Bounds: ReadBounds(d)}
	if zeroRun(d) == textPadding {
		t.Padded = true
		d.Skip(textPadding)
	}
	t.Transform = ReadCoordTransform(d)
	t.GlyphBits = d.ReadU8()
	t.AdvanceBits = d.ReadU8()

	restore := ctx.Scope(
		coder.Binding{Key: coder.KeyTransparent, Value: 1},
		coder.Binding{Key: coder.KeyGlyphSize, Value: int32(t.GlyphBits)},
		coder.Binding{Key: coder.KeyAdvanceSize, Value: int32(t.AdvanceBits)},
	)
	defer restore()

	for d.Err() == nil && d.PeekU8() != 0 {
		t.Spans = append(t.Spans, ReadTextSpan(d, ctx))
	}
	d.ReadU8()
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

// zeroRun counts the zero bytes at the aligned decoder position.
func zeroRun(d *coder.Decoder) int {
	data := d.Data()
	n := 0
	for i := d.BytePos(); i < len(data) && data[i] == 0; i++ {
		n++
	}
	return n
}

func (*DefineText2) Code() uint16 { return TagDefineText2 }
func (*DefineText2) Name() string { return "DefineText2" }

// widths returns the glyph and advance field widths needed to code t.
func (t *DefineText2) widths() (glyph, advance uint8, err error) {
	g, a := int(t.GlyphBits), int(t.AdvanceBits)
	for _, s := range t.Spans {
		for _, gi := range s.Glyphs {
			g = max(g, coder.UnsignedBits(gi.Glyph))
			a = max(a, coder.SignedBits(gi.Advance))
		}
	}
	if g > 32 || a > 32 {
		return 0, 0, errors.InvalidInput(errors.PhaseEncode, "glyph field wider than 32 bits")
	}
	return uint8(g), uint8(a), nil
}

func (t *DefineText2) scope(ctx *coder.Context, glyph, advance uint8) func() {
	return ctx.Scope(
		coder.Binding{Key: coder.KeyTransparent, Value: 1},
		coder.Binding{Key: coder.KeyGlyphSize, Value: int32(glyph)},
		coder.Binding{Key: coder.KeyAdvanceSize, Value: int32(advance)},
	)
}

type textLayout struct {
	glyph, advance uint8
}

func (t *DefineText2) Prepare(ctx *coder.Context) (coder.Plan, error) {
	glyph, advance, err := t.widths()
	if err != nil {
		return coder.Plan{}, err
	}
	restore := t.scope(ctx, glyph, advance)
	defer restore()

	n := 2 + t.Bounds.Size() + t.Transform.Size() + 2 + 1
	if t.Padded {
		n += textPadding
	}
	for _, s := range t.Spans {
		n += s.Size(ctx)
	}
	return coder.NewPlan(coder.TagFormat, TagDefineText2, n).WithState(textLayout{glyph, advance}), nil
}

func (t *DefineText2) Encode(e *coder.Encoder, p coder.Plan, ctx *coder.Context) error {
	if err := p.Check(t, "DefineText2"); err != nil {
		return err
	}
	layout, ok := p.State.(textLayout)
	if !ok {
		return errors.NoPlan("DefineText2")
	}
	restore := t.scope(ctx, layout.glyph, layout.advance)
	defer restore()

	e.Begin("DefineText2", p)
	e.WriteU16(t.Identifier)
	t.Bounds.Write(e)
	if t.Padded {
		e.WriteBytes(make([]byte, textPadding))
	}
	t.Transform.Write(e)
	e.WriteU8(layout.glyph)
	e.WriteU8(layout.advance)
	for _, s := range t.Spans {
		s.Write(e, ctx)
	}
	e.WriteU8(0)
	return e.End()
}
