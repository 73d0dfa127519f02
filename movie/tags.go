package movie

import (
	"github.com/wippyai/swf/coder"
)

// End marks the end of a tag sequence.
type End struct{}

func decodeEnd(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("End", coder.TagFormat)
	if err := d.End(); err != nil {
		return nil, err
	}
	return &End{}, nil
}

func (*End) Code() uint16 { return TagEnd }
func (*End) Name() string { return "End" }

func (t *End) Prepare(*coder.Context) (coder.Plan, error) {
	return coder.NewPlan(coder.TagFormat, TagEnd, 0), nil
}

func (t *End) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(t, "End"); err != nil {
		return err
	}
	e.Begin("End", p)
	return e.End()
}

// ShowFrame displays the current display list and starts the next frame.
type ShowFrame struct{}

func decodeShowFrame(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("ShowFrame", coder.TagFormat)
	if err := d.End(); err != nil {
		return nil, err
	}
	return &ShowFrame{}, nil
}

func (*ShowFrame) Code() uint16 { return TagShowFrame }
func (*ShowFrame) Name() string { return "ShowFrame" }

func (t *ShowFrame) Prepare(*coder.Context) (coder.Plan, error) {
	return coder.NewPlan(coder.TagFormat, TagShowFrame, 0), nil
}

func (t *ShowFrame) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(t, "ShowFrame"); err != nil {
		return err
	}
	e.Begin("ShowFrame", p)
	return e.End()
}

// Free deletes a definition so its identifier can be reused.
type Free struct {
	Identifier uint16
}

func decodeFree(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("Free", coder.TagFormat)
	t := &Free{Identifier: d.ReadU16()}
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

func (*Free) Code() uint16 { return TagFree }
func (*Free) Name() string { return "Free" }

func (t *Free) Prepare(*coder.Context) (coder.Plan, error) {
	return coder.NewPlan(coder.TagFormat, TagFree, 2), nil
}

func (t *Free) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(t, "Free"); err != nil {
		return err
	}
	e.Begin("Free", p)
	e.WriteU16(t.Identifier)
	return e.End()
}

// SetBackgroundColor sets the colour of the stage.
type SetBackgroundColor struct {
	Color Color
}

func decodeSetBackgroundColor(d *coder.Decoder, ctx *coder.Context) (coder.Record, error) {
	d.Begin("SetBackgroundColor", coder.TagFormat)
	t := &SetBackgroundColor{Color: ReadColor(d, ctx)}
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

func (*SetBackgroundColor) Code() uint16 { return TagSetBackgroundColor }
func (*SetBackgroundColor) Name() string { return "SetBackgroundColor" }

func (t *SetBackgroundColor) Prepare(ctx *coder.Context) (coder.Plan, error) {
	return coder.NewPlan(coder.TagFormat, TagSetBackgroundColor, t.Color.Size(ctx)), nil
}

func (t *SetBackgroundColor) Encode(e *coder.Encoder, p coder.Plan, ctx *coder.Context) error {
	if err := p.Check(t, "SetBackgroundColor"); err != nil {
		return err
	}
	e.Begin("SetBackgroundColor", p)
	t.Color.Write(e, ctx)
	return e.End()
}

// FrameLabel names the current frame. An anchor label can also be
// addressed from a browser URL.
type FrameLabel struct {
	Label  string
	Anchor bool
}

func decodeFrameLabel(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	h := d.Begin("FrameLabel", coder.TagFormat)
	t := &FrameLabel{Label: d.ReadCString()}
	if d.Consumed() < h.Length {
		t.Anchor = d.ReadU8() != 0
	}
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

func (*FrameLabel) Code() uint16 { return TagFrameLabel }
func (*FrameLabel) Name() string { return "FrameLabel" }

func (t *FrameLabel) Prepare(ctx *coder.Context) (coder.Plan, error) {
	n, err := ctx.StringSize(t.Label)
	if err != nil {
		return coder.Plan{}, err
	}
	if t.Anchor {
		n++
	}
	return coder.NewPlan(coder.TagFormat, TagFrameLabel, n), nil
}

func (t *FrameLabel) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(t, "FrameLabel"); err != nil {
		return err
	}
	e.Begin("FrameLabel", p)
	e.WriteString(t.Label)
	if t.Anchor {
		e.WriteU8(1)
	}
	return e.End()
}

// LimitScript overrides the player's recursion depth and script timeout.
type LimitScript struct {
	Depth   uint16
	Timeout uint16 // seconds
}

func decodeLimitScript(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("LimitScript", coder.TagFormat)
	t := &LimitScript{Depth: d.ReadU16(), Timeout: d.ReadU16()}
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

func (*LimitScript) Code() uint16 { return TagLimitScript }
func (*LimitScript) Name() string { return "LimitScript" }

func (t *LimitScript) Prepare(*coder.Context) (coder.Plan, error) {
	return coder.NewPlan(coder.TagFormat, TagLimitScript, 4), nil
}

func (t *LimitScript) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(t, "LimitScript"); err != nil {
		return err
	}
	e.Begin("LimitScript", p)
	e.WriteU16(t.Depth)
	e.WriteU16(t.Timeout)
	return e.End()
}

// TabOrder sets the tab index of the object on a display list layer.
type TabOrder struct {
	Layer uint16
	Index uint16
}

func decodeTabOrder(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("TabOrder", coder.TagFormat)
	t := &TabOrder{Layer: d.ReadU16(), Index: d.ReadU16()}
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

func (*TabOrder) Code() uint16 { return TagTabOrder }
func (*TabOrder) Name() string { return "TabOrder" }

func (t *TabOrder) Prepare(*coder.Context) (coder.Plan, error) {
	return coder.NewPlan(coder.TagFormat, TagTabOrder, 4), nil
}

func (t *TabOrder) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(t, "TabOrder"); err != nil {
		return err
	}
	e.Begin("TabOrder", p)
	e.WriteU16(t.Layer)
	e.WriteU16(t.Index)
	return e.End()
}
