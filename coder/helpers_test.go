package coder

import "encoding/hex"

// idRecord is a minimal tag holding a 16 bit identifier.
type idRecord struct {
	code uint16
	id   uint16
}

func (r *idRecord) Code() uint16 { return r.code }

func (r *idRecord) Prepare(*Context) (Plan, error) {
	return NewPlan(TagFormat, r.code, 2), nil
}

func (r *idRecord) Encode(e *Encoder, p Plan, _ *Context) error {
	if err := p.Check(r, "id"); err != nil {
		return err
	}
	e.Begin("id", p)
	e.WriteU16(r.id)
	return e.End()
}

func decodeID(d *Decoder, _ *Context) (Record, error) {
	h := d.Begin("id", TagFormat)
	r := &idRecord{code: h.Code, id: d.ReadU16()}
	if err := d.End(); err != nil {
		return nil, err
	}
	return r, nil
}

func idRegistry() *Registry {
	r := NewRegistry(TagFormat)
	r.MustRegister(3, FactoryFunc(decodeID), "Free")
	return r
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
