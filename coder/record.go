package coder

import (
	"fmt"

	"github.com/wippyai/swf/errors"
)

// Record is a value that can be written as a framed record.
//
// Encoding is two passes: Prepare measures the record, including anything
// nested inside it, and returns a Plan; Encode then writes exactly the
// planned bytes. Encode must be given the plan Prepare returned for the
// same record and context state.
type Record interface {
	Code() uint16
	Prepare(ctx *Context) (Plan, error)
	Encode(e *Encoder, p Plan, ctx *Context) error
}

// Factory decodes one record whose header starts at the decoder position.
type Factory interface {
	Decode(d *Decoder, ctx *Context) (Record, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(d *Decoder, ctx *Context) (Record, error)

// Decode calls f.
func (f FactoryFunc) Decode(d *Decoder, ctx *Context) (Record, error) {
	return f(d, ctx)
}

// Marshal prepares and encodes a single record into a new buffer.
func Marshal(r Record, ctx *Context, opts Options) ([]byte, error) {
	p, err := r.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	e, err := NewEncoder(p.Length(), opts)
	if err != nil {
		return nil, err
	}
	if err := r.Encode(e, p, ctx); err != nil {
		return nil, err
	}
	if !e.EOF() {
		return nil, errors.NewFramingError(errors.PhaseEncode, RecordName(r), nil, 0, p.Body, e.Pos(), p.Length()<<3)
	}
	return e.Data(), nil
}

// Unmarshal decodes a single record from data using reg.
// The record must consume data exactly.
func Unmarshal(data []byte, reg *Registry, ctx *Context, opts Options) (Record, error) {
	d, err := NewDecoder(data, opts)
	if err != nil {
		return nil, err
	}
	r, err := reg.Decode(d, ctx)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			fmt.Sprintf("%d trailing bytes after %s", d.Remaining(), RecordName(r)))
	}
	return r, nil
}

// RecordName returns the name a record reports through a Name method, or
// its Go type.
func RecordName(r Record) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}
