package coder

import (
	"fmt"

	"github.com/wippyai/swf/errors"
)

// Tag header layout.
const (
	// ShortLengthMax is the largest body length a short tag header holds.
	ShortLengthMax = 0x3E
	// ExtendedMarker in the 6 bit length field announces a 32 bit length.
	ExtendedMarker = 0x3F
	// ShortHeaderSize and ExtendedHeaderSize are tag header sizes in bytes.
	ShortHeaderSize    = 2
	ExtendedHeaderSize = 6
	// MaxTagCode is the largest code the 10 bit type field holds.
	MaxTagCode = 0x3FF
)

// Action header layout.
const (
	// ActionLengthFlag marks action codes that carry a 16 bit length.
	ActionLengthFlag = 0x80
	MaxActionCode    = 0xFF
	MaxActionLength  = 0xFFFF
)

// TerminalLength is the declared length of a record that ends a sequence.
// It is the only negative length a plan may carry.
const TerminalLength = -2

// TagWord splits a short tag header into its length and type code.
var TagWord = PackedField{Shift: 6, Width: 10}

// Header is a decoded record header.
type Header struct {
	Code     uint16
	Length   int  // body length in bytes
	Size     int  // header length in bytes
	Extended bool // length was written in the long form
	Terminal bool // record is last in its sequence; Length is unknown
}

// Format reads and writes one style of record header.
type Format interface {
	// Name identifies the format in errors and logs.
	Name() string
	// Codes returns the number of distinct type codes.
	Codes() int
	// HeaderSize returns the header length for a body of the given size.
	HeaderSize(code uint16, body int, extended bool) int
	// ReadHeader decodes a header. Failures are recorded on d.
	ReadHeader(d *Decoder) Header
	// WriteHeader encodes the header described by p. Failures are recorded on e.
	WriteHeader(e *Encoder, p Plan)
}

var (
	// TagFormat is the 16 bit code/length header with an optional 32 bit length.
	TagFormat Format = tagFormat{}
	// ActionFormat is the one byte action code, followed by a 16 bit length
	// when the code has its high bit set.
	ActionFormat Format = actionFormat{}
	// OffsetFormat is a 16 bit forward offset that counts itself.
	// Zero marks the last record of a sequence, which runs to the end of the
	// enclosing record.
	OffsetFormat Format = offsetFormat{}
)

type tagFormat struct{}

func (tagFormat) Name() string { return "tag" }
func (tagFormat) Codes() int   { return MaxTagCode + 1 }

func (tagFormat) HeaderSize(_ uint16, body int, extended bool) int {
	if extended || body > ShortLengthMax {
		return ExtendedHeaderSize
	}
	return ShortHeaderSize
}

func (tagFormat) ReadHeader(d *Decoder) Header {
	start := d.Pos()
	length, code := TagWord.Split(uint32(d.ReadU16()))
	h := Header{Code: uint16(code), Length: int(length), Size: ShortHeaderSize}
	if length == ExtendedMarker {
		ext := int32(d.ReadU32())
		if d.Err() != nil {
			return Header{}
		}
		if ext < 0 {
			d.SetError(errors.NewFramingError(errors.PhaseDecode, fmt.Sprintf("tag %d", code),
				d.Path(), start, int(ext), start, start+ExtendedHeaderSize<<3))
			return Header{}
		}
		h.Length = int(ext)
		h.Size = ExtendedHeaderSize
		h.Extended = true
	}
	return h
}

func (tagFormat) WriteHeader(e *Encoder, p Plan) {
	if p.Code > MaxTagCode {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("tag code %d exceeds %d", p.Code, MaxTagCode)))
		return
	}
	if p.Extended || p.Body > ShortLengthMax {
		e.WriteU16(uint16(TagWord.Join(ExtendedMarker, uint32(p.Code))))
		e.WriteU32(uint32(p.Body))
		return
	}
	e.WriteU16(uint16(TagWord.Join(uint32(p.Body), uint32(p.Code))))
}

type actionFormat struct{}

func (actionFormat) Name() string { return "action" }
func (actionFormat) Codes() int   { return MaxActionCode + 1 }

func (actionFormat) HeaderSize(code uint16, _ int, _ bool) int {
	if code >= ActionLengthFlag {
		return 3
	}
	return 1
}

func (actionFormat) ReadHeader(d *Decoder) Header {
	code := uint16(d.ReadU8())
	if code < ActionLengthFlag {
		return Header{Code: code, Size: 1}
	}
	return Header{Code: code, Length: int(d.ReadU16()), Size: 3}
}

func (actionFormat) WriteHeader(e *Encoder, p Plan) {
	switch {
	case p.Code > MaxActionCode:
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("action code %d exceeds %d", p.Code, MaxActionCode)))
	case p.Code < ActionLengthFlag && p.Body != 0:
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("action 0x%02x cannot carry a body", p.Code)))
	case p.Body > MaxActionLength:
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("action 0x%02x body of %d bytes exceeds %d", p.Code, p.Body, MaxActionLength)))
	case p.Code < ActionLengthFlag:
		e.WriteU8(uint8(p.Code))
	default:
		e.WriteU8(uint8(p.Code))
		e.WriteU16(uint16(p.Body))
	}
}

type offsetFormat struct{}

func (offsetFormat) Name() string { return "offset" }
func (offsetFormat) Codes() int   { return 1 }

func (offsetFormat) HeaderSize(uint16, int, bool) int { return 2 }

func (offsetFormat) ReadHeader(d *Decoder) Header {
	start := d.Pos()
	offset := int(d.ReadU16())
	switch {
	case d.Err() != nil:
		return Header{}
	case offset == 0:
		return Header{Size: 2, Terminal: true}
	case offset < 2:
		d.SetError(errors.NewFramingError(errors.PhaseDecode, "offset", d.Path(), start, offset-2, start+16, start+offset<<3))
		return Header{}
	}
	return Header{Length: offset - 2, Size: 2}
}

func (offsetFormat) WriteHeader(e *Encoder, p Plan) {
	if p.Terminal {
		e.WriteU16(0)
		return
	}
	if p.Body+2 > 0xFFFF {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("record of %d bytes exceeds a 16 bit offset", p.Body+2)))
		return
	}
	e.WriteU16(uint16(p.Body + 2))
}

// Plan is the result of preparing a record for encoding. It carries the
// sizes computed during the measuring pass, plus any state the record
// wants to hand from Prepare to Encode.
type Plan struct {
	State    any
	Format   Format
	Code     uint16
	Header   int // header size in bytes
	Body     int // body size in bytes
	Trailer  int // bytes owned by the record that follow its framed body
	Extended bool
	Terminal bool
	ready    bool
}

// NewPlan returns a plan for a record body of the given size.
func NewPlan(f Format, code uint16, body int) Plan {
	return Plan{
		Format: f,
		Code:   code,
		Header: f.HeaderSize(code, body, false),
		Body:   body,
		ready:  true,
	}
}

// Extend forces the long header form.
func (p Plan) Extend() Plan {
	p.Extended = true
	p.Header = p.Format.HeaderSize(p.Code, p.Body, true)
	return p
}

// Last marks the record as the final one in its sequence.
func (p Plan) Last() Plan {
	p.Terminal = true
	return p
}

// WithState attaches record-specific state computed during Prepare.
func (p Plan) WithState(state any) Plan {
	p.State = state
	return p
}

// WithTrailer records bytes written after the framed body, such as the
// code block of a function definition.
func (p Plan) WithTrailer(n int) Plan {
	p.Trailer = n
	return p
}

// Length returns the full encoded size in bytes.
func (p Plan) Length() int {
	return p.Header + p.Body + p.Trailer
}

// Declared returns the length written into the header.
func (p Plan) Declared() int {
	if p.Terminal {
		return TerminalLength
	}
	return p.Body
}

// Ready reports whether the plan came from NewPlan.
func (p Plan) Ready() bool {
	return p.ready
}

// Check verifies that p was prepared for r.
func (p Plan) Check(r Record, name string) error {
	if !p.ready || p.Code != r.Code() {
		return errors.NoPlan(name)
	}
	return nil
}
