package coder

import "fmt"

// Opaque is a record whose type code has no registered factory. Its body
// is kept as raw bytes and re-encoded unchanged, including the long header
// form when the source used it.
type Opaque struct {
	Format   Format
	Data     []byte
	TypeCode uint16
	Extended bool
}

// DecodeOpaque reads the next record in format f as raw bytes.
func DecodeOpaque(d *Decoder, f Format) (*Opaque, error) {
	h := d.PeekHeader(f)
	name := opaqueName(h.Code)
	h = d.Begin(name, f)
	o := &Opaque{Format: f, TypeCode: h.Code, Extended: h.Extended}
	o.Data = d.ReadBytes(h.Length)
	if err := d.End(); err != nil {
		return nil, err
	}
	return o, nil
}

// Code returns the record's type code.
func (o *Opaque) Code() uint16 { return o.TypeCode }

// Name identifies the record in errors.
func (o *Opaque) Name() string { return opaqueName(o.TypeCode) }

// Prepare sizes the record from its stored body.
func (o *Opaque) Prepare(*Context) (Plan, error) {
	p := NewPlan(o.Format, o.TypeCode, len(o.Data))
	if o.Extended {
		p = p.Extend()
	}
	return p, nil
}

// Encode writes the header and the stored body.
func (o *Opaque) Encode(e *Encoder, p Plan, _ *Context) error {
	if err := p.Check(o, o.Name()); err != nil {
		return err
	}
	e.Begin(o.Name(), p)
	e.WriteBytes(o.Data)
	return e.End()
}

func opaqueName(code uint16) string {
	return fmt.Sprintf("opaque(%d)", code)
}
