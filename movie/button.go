package movie

import (
	"fmt"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

// ButtonEvent is a set of pointer transitions that trigger a handler.
type ButtonEvent uint16

const (
	EventRollOver       ButtonEvent = 1 << iota // idle to over, up
	EventRollOut                                // over to idle, up
	EventPress                                  // over, up to down
	EventRelease                                // over, down to up
	EventDragOut                                // over to out, down
	EventDragOver                               // out to over, down
	EventReleaseOutside                         // out, down to idle
	EventMenuDragOver                           // idle to over, down
	EventMenuDragOut                            // over, down to idle
)

// eventWord packs the event flags under the key code of a handler.
var eventWord = coder.PackedField{Shift: 9, Width: 7}

// Button states in which a ButtonRecord's character is shown.
const (
	StateUp      = 0x01
	StateOver    = 0x02
	StateDown    = 0x04
	StateHitTest = 0x08
)

const (
	buttonHasFilters = 0x10
	buttonHasBlend   = 0x20
)

// ButtonRecord places a character on the button for a set of states.
type ButtonRecord struct {
	States         uint8
	Character      uint16
	Layer          uint16
	Transform      CoordTransform
	ColorTransform ColorTransform
	BlendMode      *uint8
}

// ReadButtonRecord decodes a button record. Filter lists are not
// supported.
func ReadButtonRecord(d *coder.Decoder, ctx *coder.Context) ButtonRecord {
	flags := d.ReadU8()
	r := ButtonRecord{
		States:    flags & 0x0F,
		Character: d.ReadU16(),
		Layer:     d.ReadU16(),
		Transform: ReadCoordTransform(d),
	}
	r.ColorTransform = ReadColorTransform(d, ctx)
	if flags&buttonHasFilters != 0 {
		d.SetError(errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Path(d.Path()...).
			Detail("button filter lists").
			Build())
		return ButtonRecord{}
	}
	if flags&buttonHasBlend != 0 {
		mode := d.ReadU8()
		r.BlendMode = &mode
	}
	return r
}

// Size returns the encoded size in bytes.
func (r ButtonRecord) Size(ctx *coder.Context) int {
	n := 5 + r.Transform.Size() + r.ColorTransform.Size(ctx)
	if r.BlendMode != nil {
		n++
	}
	return n
}

// Write encodes the record.
func (r ButtonRecord) Write(e *coder.Encoder, ctx *coder.Context) {
	flags := r.States & 0x0F
	if r.BlendMode != nil {
		flags |= buttonHasBlend
	}
	if flags == 0 {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("button record for character %d is shown in no state", r.Character)))
		return
	}
	e.WriteU8(flags)
	e.WriteU16(r.Character)
	e.WriteU16(r.Layer)
	r.Transform.Write(e)
	r.ColorTransform.Write(e, ctx)
	if r.BlendMode != nil {
		e.WriteU8(*r.BlendMode)
	}
}

// ButtonEventHandler runs actions when the button sees one of a set of
// events, or when a key is pressed while it has focus. Each handler is
// preceded by the offset to the next; the last handler has offset zero
// and runs to the end of the button definition.
type ButtonEventHandler struct {
	Events  ButtonEvent
	Key     uint8
	Actions []coder.Record
	// Raw holds the actions when no action registry is configured.
	Raw []byte
}

func decodeButtonEventHandler(d *coder.Decoder, ctx *coder.Context) (*ButtonEventHandler, error) {
	h := d.Begin("ButtonEventHandler", coder.OffsetFormat)
	events, key := eventWord.Split(uint32(d.ReadU16()))
	b := &ButtonEventHandler{Events: ButtonEvent(events), Key: uint8(key)}
	if ctx.Actions == nil {
		b.Raw = d.ReadBytes(h.Length - 2)
	} else {
		b.Actions = decodeRecords(d, ctx, ctx.Actions, h.Length)
	}
	if err := d.End(); err != nil {
		return nil, err
	}
	return b, nil
}

func (*ButtonEventHandler) Code() uint16 { return 0 }
func (*ButtonEventHandler) Name() string { return "ButtonEventHandler" }

// Prepare sizes the handler. A handler prepared with coder.KeyLast set is
// written as the last of its button.
func (b *ButtonEventHandler) Prepare(ctx *coder.Context) (coder.Plan, error) {
	if !eventWord.Fits(uint32(b.Events), uint32(b.Key)) {
		return coder.Plan{}, errors.InvalidInput(errors.PhaseEncode,
			fmt.Sprintf("event 0x%x with key %d does not fit the event word", uint16(b.Events), b.Key))
	}
	var p coder.Plan
	if b.Raw != nil {
		p = coder.NewPlan(coder.OffsetFormat, 0, 2+len(b.Raw))
	} else {
		plans, n, err := prepareRecords(b.Actions, ctx)
		if err != nil {
			return coder.Plan{}, err
		}
		p = coder.NewPlan(coder.OffsetFormat, 0, 2+n).WithState(plans)
	}
	if ctx.Contains(coder.KeyLast) {
		p = p.Last()
	}
	return p, nil
}

func (b *ButtonEventHandler) Encode(e *coder.Encoder, p coder.Plan, ctx *coder.Context) error {
	if err := p.Check(b, "ButtonEventHandler"); err != nil {
		return err
	}
	var plans []coder.Plan
	if b.Raw == nil {
		var err error
		if plans, err = childPlans(p, "ButtonEventHandler", len(b.Actions)); err != nil {
			return err
		}
	}
	e.Begin("ButtonEventHandler", p)
	e.WriteU16(uint16(eventWord.Join(uint32(b.Events), uint32(b.Key))))
	if b.Raw != nil {
		e.WriteBytes(b.Raw)
	} else {
		encodeRecords(e, b.Actions, plans, ctx)
	}
	return e.End()
}

// DefineButton2 defines a button whose characters carry colour transforms
// with alpha and whose handlers respond to individual events.
type DefineButton2 struct {
	Identifier  uint16
	TrackAsMenu bool
	Records     []ButtonRecord
	Handlers    []*ButtonEventHandler
}

func decodeDefineButton2(d *coder.Decoder, ctx *coder.Context) (coder.Record, error) {
	d.Begin("DefineButton2", coder.TagFormat)
	restore := ctx.Scope(coder.Binding{Key: coder.KeyTransparent, Value: 1})
	defer restore()

	b := &DefineButton2{Identifier: d.ReadU16()}
	b.TrackAsMenu = d.ReadU8()&0x01 != 0

	d.Mark("DefineButton2.records")
	offset := int(d.ReadU16())
	for d.Err() == nil && d.PeekU8() != 0 {
		b.Records = append(b.Records, ReadButtonRecord(d, ctx))
	}
	d.ReadU8()
	if offset != 0 {
		if err := d.Unmark(offset); err != nil {
			return nil, err
		}
		for d.Err() == nil && d.Left() > 0 {
			h, err := decodeButtonEventHandler(d, ctx)
			if err != nil {
				d.SetError(err)
				break
			}
			b.Handlers = append(b.Handlers, h)
		}
	} else if err := d.Unmark(d.Consumed()); err != nil {
		return nil, err
	}
	if err := d.End(); err != nil {
		return nil, err
	}
	return b, nil
}

func (*DefineButton2) Code() uint16 { return TagDefineButton2 }
func (*DefineButton2) Name() string { return "DefineButton2" }

type buttonLayout struct {
	offset   int
	handlers []coder.Plan
}

func (b *DefineButton2) Prepare(ctx *coder.Context) (coder.Plan, error) {
	restore := ctx.Scope(coder.Binding{Key: coder.KeyTransparent, Value: 1})
	defer restore()

	records := 2 + 1
	for _, r := range b.Records {
		records += r.Size(ctx)
	}
	layout := buttonLayout{handlers: make([]coder.Plan, len(b.Handlers))}
	if len(b.Handlers) > 0 {
		layout.offset = records
	}
	n := 2 + 1 + records
	for i, h := range b.Handlers {
		var p coder.Plan
		var err error
		if i == len(b.Handlers)-1 {
			last := ctx.Scope(coder.Binding{Key: coder.KeyLast, Value: 1})
			p, err = h.Prepare(ctx)
			last()
		} else {
			p, err = h.Prepare(ctx)
		}
		if err != nil {
			return coder.Plan{}, err
		}
		layout.handlers[i] = p
		n += p.Length()
	}
	if layout.offset > 0xFFFF {
		return coder.Plan{}, errors.InvalidInput(errors.PhaseEncode, "button records exceed a 16 bit offset")
	}
	return coder.NewPlan(coder.TagFormat, TagDefineButton2, n).WithState(layout), nil
}

func (b *DefineButton2) Encode(e *coder.Encoder, p coder.Plan, ctx *coder.Context) error {
	if err := p.Check(b, "DefineButton2"); err != nil {
		return err
	}
	layout, ok := p.State.(buttonLayout)
	if !ok || len(layout.handlers) != len(b.Handlers) {
		return errors.NoPlan("DefineButton2")
	}
	restore := ctx.Scope(coder.Binding{Key: coder.KeyTransparent, Value: 1})
	defer restore()

	e.Begin("DefineButton2", p)
	e.WriteU16(b.Identifier)
	if b.TrackAsMenu {
		e.WriteU8(1)
	} else {
		e.WriteU8(0)
	}
	e.WriteU16(uint16(layout.offset))
	for _, r := range b.Records {
		r.Write(e, ctx)
	}
	e.WriteU8(0)
	for i, h := range b.Handlers {
		if err := h.Encode(e, layout.handlers[i], ctx); err != nil {
			e.SetError(err)
			break
		}
	}
	return e.End()
}
