package coder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/swf/errors"
)

// Registry maps type codes to the factories that decode them.
//
// The registry provides O(1) factory lookup by type code. Codes without a
// factory decode as Opaque, so a stream with unknown records still
// round-trips. A Registry is assembled once and then only read; it is safe
// to share read-only between goroutines.
type Registry struct {
	format    Format
	factories []Factory
	names     []string
}

// NewRegistry creates an empty Registry for records framed with f.
//
// All codes are initially unregistered. Use Register or RegisterFunc to
// add factories.
func NewRegistry(f Format) *Registry {
	return &Registry{
		format:    f,
		factories: make([]Factory, f.Codes()),
		names:     make([]string, f.Codes()),
	}
}

// Format returns the header format of the registered records.
func (r *Registry) Format() Format {
	return r.format
}

// Register adds a factory for a single type code.
//
// If a factory was already registered for this code, it is replaced.
// The name is used in logs and by tooling.
func (r *Registry) Register(code uint16, f Factory, name string) error {
	if int(code) >= len(r.factories) {
		return errors.Registration(int(code), fmt.Sprintf("outside the %d codes of the %s format", len(r.factories), r.format.Name()))
	}
	if f == nil {
		return errors.Registration(int(code), "nil factory")
	}
	r.factories[code] = f
	r.names[code] = name
	return nil
}

// RegisterFunc registers a function as the factory for a type code.
func (r *Registry) RegisterFunc(code uint16, fn func(*Decoder, *Context) (Record, error), name string) error {
	return r.Register(code, FactoryFunc(fn), name)
}

// MustRegister is like Register but panics on error. It is meant for
// registries assembled from constant tables.
func (r *Registry) MustRegister(code uint16, f Factory, name string) {
	if err := r.Register(code, f, name); err != nil {
		panic(err)
	}
}

// Unregister removes the factory for a type code, so that records with
// that code decode as Opaque.
func (r *Registry) Unregister(code uint16) {
	if int(code) < len(r.factories) {
		r.factories[code] = nil
		r.names[code] = ""
	}
}

// Get returns the factory for a type code, or nil if not registered.
func (r *Registry) Get(code uint16) Factory {
	if int(code) >= len(r.factories) {
		return nil
	}
	return r.factories[code]
}

// Has returns true if a factory is registered for the code.
func (r *Registry) Has(code uint16) bool {
	return r.Get(code) != nil
}

// Name returns the name registered for a code, or "" if none.
func (r *Registry) Name(code uint16) string {
	if int(code) >= len(r.names) {
		return ""
	}
	return r.names[code]
}

// Codes returns the registered type codes in ascending order.
func (r *Registry) Codes() []uint16 {
	var codes []uint16
	for i, f := range r.factories {
		if f != nil {
			codes = append(codes, uint16(i))
		}
	}
	return codes
}

// Missing returns the codes in the list that have no registered factory.
func (r *Registry) Missing(codes []uint16) []uint16 {
	var missing []uint16
	for _, c := range codes {
		if !r.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Clone returns an independent copy that can be modified without
// affecting r.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		format:    r.format,
		factories: make([]Factory, len(r.factories)),
		names:     make([]string, len(r.names)),
	}
	copy(c.factories, r.factories)
	copy(c.names, r.names)
	return c
}

// Decode reads the record at the decoder position, dispatching on its type
// code. The position is left after the record.
func (r *Registry) Decode(d *Decoder, ctx *Context) (Record, error) {
	h := d.PeekHeader(r.format)
	if err := d.Err(); err != nil {
		return nil, err
	}
	f := r.Get(h.Code)
	if f == nil {
		Logger().Debug("no factory, keeping record opaque",
			zap.String("format", r.format.Name()),
			zap.Uint16("code", h.Code),
			zap.Int("length", h.Length),
			zap.Int("offset", d.BytePos()))
		return DecodeOpaque(d, r.format)
	}
	rec, err := f.Decode(d, ctx)
	if err != nil {
		return nil, err
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}
