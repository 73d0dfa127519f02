package movie

import (
	"fmt"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

// BasicAction is a stack machine instruction without operands.
type BasicAction struct {
	Op uint8
}

func decodeBasicAction(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	h := d.Begin("BasicAction", coder.ActionFormat)
	a := &BasicAction{Op: uint8(h.Code)}
	if err := d.End(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *BasicAction) Code() uint16 { return uint16(a.Op) }

func (a *BasicAction) Name() string {
	if n, ok := actionNames[uint16(a.Op)]; ok {
		return n
	}
	return fmt.Sprintf("Action(0x%02x)", a.Op)
}

func (a *BasicAction) Prepare(*coder.Context) (coder.Plan, error) {
	if uint16(a.Op) >= coder.ActionLengthFlag {
		return coder.Plan{}, errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("action 0x%02x takes operands", a.Op))
	}
	return coder.NewPlan(coder.ActionFormat, uint16(a.Op), 0), nil
}

func (a *BasicAction) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(a, a.Name()); err != nil {
		return err
	}
	e.Begin(a.Name(), p)
	return e.End()
}

// GotoFrame moves the playhead to a frame number.
type GotoFrame struct {
	Frame uint16
}

func decodeGotoFrame(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("GotoFrame", coder.ActionFormat)
	a := &GotoFrame{Frame: d.ReadU16()}
	if err := d.End(); err != nil {
		return nil, err
	}
	return a, nil
}

func (*GotoFrame) Code() uint16 { return ActionGotoFrame }
func (*GotoFrame) Name() string { return "GotoFrame" }

func (a *GotoFrame) Prepare(*coder.Context) (coder.Plan, error) {
	return coder.NewPlan(coder.ActionFormat, ActionGotoFrame, 2), nil
}

func (a *GotoFrame) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(a, "GotoFrame"); err != nil {
		return err
	}
	e.Begin("GotoFrame", p)
	e.WriteU16(a.Frame)
	return e.End()
}

// GetURL loads a document into a browser window or movie level.
type GetURL struct {
	URL    string
	Target string
}

func decodeGetURL(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("GetURL", coder.ActionFormat)
	a := &GetURL{URL: d.ReadCString(), Target: d.ReadCString()}
	if err := d.End(); err != nil {
		return nil, err
	}
	return a, nil
}

func (*GetURL) Code() uint16 { return ActionGetURL }
func (*GetURL) Name() string { return "GetURL" }

func (a *GetURL) Prepare(ctx *coder.Context) (coder.Plan, error) {
	u, err := ctx.StringSize(a.URL)
	if err != nil {
		return coder.Plan{}, err
	}
	t, err := ctx.StringSize(a.Target)
	if err != nil {
		return coder.Plan{}, err
	}
	return coder.NewPlan(coder.ActionFormat, ActionGetURL, u+t), nil
}

func (a *GetURL) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(a, "GetURL"); err != nil {
		return err
	}
	e.Begin("GetURL", p)
	e.WriteString(a.URL)
	e.WriteString(a.Target)
	return e.End()
}

// Argument is a function parameter and the register it is stored in.
// Register zero keeps the argument in a named variable instead.
type Argument struct {
	Name     string
	Register uint8
}

// NewFunction2 defines a function whose body follows the definition.
// The body's length is declared in the definition, outside its own header
// length.
type NewFunction2 struct {
	FunctionName  string
	Registers     uint8
	Optimizations uint16
	Arguments     []Argument
	Actions       []coder.Record
	// Raw holds the body when no action registry is configured.
	Raw []byte
}

func decodeNewFunction2(d *coder.Decoder, ctx *coder.Context) (coder.Record, error) {
	d.Begin("NewFunction2", coder.ActionFormat)
	a := &NewFunction2{FunctionName: d.ReadCString()}
	count := int(d.ReadU16())
	a.Registers = d.ReadU8()
	a.Optimizations = d.ReadU16()
	for i := 0; i < count && d.Err() == nil; i++ {
		reg := d.ReadU8()
		a.Arguments = append(a.Arguments, Argument{Register: reg, Name: d.ReadCString()})
	}
	size := int(d.ReadU16())
	if err := d.End(); err != nil {
		return nil, err
	}

	d.Mark("NewFunction2.body")
	if ctx.Actions == nil {
		a.Raw = d.ReadBytes(size)
	} else {
		a.Actions = decodeRecords(d, ctx, ctx.Actions, size)
	}
	if err := d.Unmark(size); err != nil {
		return nil, err
	}
	return a, nil
}

func (*NewFunction2) Code() uint16 { return ActionNewFunction }
func (*NewFunction2) Name() string { return "NewFunction2" }

func (a *NewFunction2) Prepare(ctx *coder.Context) (coder.Plan, error) {
	n, err := ctx.StringSize(a.FunctionName)
	if err != nil {
		return coder.Plan{}, err
	}
	if len(a.Arguments) > 0xFFFF {
		return coder.Plan{}, errors.InvalidInput(errors.PhaseEncode, "too many function arguments")
	}
	body := n + 2 + 1 + 2 + 2
	for _, arg := range a.Arguments {
		s, err := ctx.StringSize(arg.Name)
		if err != nil {
			return coder.Plan{}, err
		}
		body += 1 + s
	}

	code := len(a.Raw)
	var plans []coder.Plan
	if a.Raw == nil {
		plans, code, err = prepareRecords(a.Actions, ctx)
		if err != nil {
			return coder.Plan{}, err
		}
	}
	if code > 0xFFFF {
		return coder.Plan{}, errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("function body of %d bytes exceeds 65535", code))
	}
	return coder.NewPlan(coder.ActionFormat, ActionNewFunction, body).WithTrailer(code).WithState(plans), nil
}

func (a *NewFunction2) Encode(e *coder.Encoder, p coder.Plan, ctx *coder.Context) error {
	if err := p.Check(a, "NewFunction2"); err != nil {
		return err
	}
	var plans []coder.Plan
	if a.Raw == nil {
		var err error
		if plans, err = childPlans(p, "NewFunction2", len(a.Actions)); err != nil {
			return err
		}
	}
	e.Begin("NewFunction2", p)
	e.WriteString(a.FunctionName)
	e.WriteU16(uint16(len(a.Arguments)))
	e.WriteU8(a.Registers)
	e.WriteU16(a.Optimizations)
	for _, arg := range a.Arguments {
		e.WriteU8(arg.Register)
		e.WriteString(arg.Name)
	}
	e.WriteU16(uint16(p.Trailer))
	if err := e.End(); err != nil {
		return err
	}

	e.Mark("NewFunction2.body")
	if a.Raw != nil {
		e.WriteBytes(a.Raw)
	} else {
		encodeRecords(e, a.Actions, plans, ctx)
	}
	return e.Unmark(p.Trailer)
}

// DoAction runs a list of actions when the frame it belongs to is shown.
type DoAction struct {
	Actions []coder.Record
	// Raw holds the body when no action registry is configured.
	Raw []byte
}

func decodeDoAction(d *coder.Decoder, ctx *coder.Context) (coder.Record, error) {
	h := d.Begin("DoAction", coder.TagFormat)
	t := &DoAction{}
	if ctx.Actions == nil {
		t.Raw = d.ReadBytes(h.Length)
	} else {
		t.Actions = decodeRecords(d, ctx, ctx.Actions, h.Length)
	}
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

func (*DoAction) Code() uint16 { return TagDoAction }
func (*DoAction) Name() string { return "DoAction" }

func (t *DoAction) Prepare(ctx *coder.Context) (coder.Plan, error) {
	if t.Raw != nil {
		return coder.NewPlan(coder.TagFormat, TagDoAction, len(t.Raw)), nil
	}
	plans, n, err := prepareRecords(t.Actions, ctx)
	if err != nil {
		return coder.Plan{}, err
	}
	return coder.NewPlan(coder.TagFormat, TagDoAction, n).WithState(plans), nil
}

func (t *DoAction) Encode(e *coder.Encoder, p coder.Plan, ctx *coder.Context) error {
	if err := p.Check(t, "DoAction"); err != nil {
		return err
	}
	if t.Raw != nil {
		e.Begin("DoAction", p)
		e.WriteBytes(t.Raw)
		return e.End()
	}
	plans, err := childPlans(p, "DoAction", len(t.Actions))
	if err != nil {
		return err
	}
	e.Begin("DoAction", p)
	encodeRecords(e, t.Actions, plans, ctx)
	return e.End()
}
