package movie

import (
	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

const (
	soundSyncStop       = 0x20
	soundSyncNoMultiple = 0x10
	soundHasEnvelope    = 0x08
	soundHasLoops       = 0x04
	soundHasOutPoint    = 0x02
	soundHasInPoint     = 0x01
)

// EnvelopePoint sets the channel volumes at a sample position.
type EnvelopePoint struct {
	Mark  uint32 // 44 kHz sample position
	Left  uint16
	Right uint16
}

// SoundInfo controls how a sound is played. Optional fields left nil are
// not coded; a non-nil Envelope is coded even when empty.
type SoundInfo struct {
	Stop       bool
	NoMultiple bool
	InPoint    *uint32
	OutPoint   *uint32
	Loops      *uint16
	Envelope   []EnvelopePoint
}

// ReadSoundInfo decodes playback settings.
func ReadSoundInfo(d *coder.Decoder) SoundInfo {
	flags := d.ReadU8()
	s := SoundInfo{
		Stop:       flags&soundSyncStop != 0,
		NoMultiple: flags&soundSyncNoMultiple != 0,
	}
	if flags&soundHasInPoint != 0 {
		v := d.ReadU32()
		s.InPoint = &v
	}
	if flags&soundHasOutPoint != 0 {
		v := d.ReadU32()
		s.OutPoint = &v
	}
	if flags&soundHasLoops != 0 {
		v := d.ReadU16()
		s.Loops = &v
	}
	if flags&soundHasEnvelope != 0 {
		n := int(d.ReadU8())
		s.Envelope = make([]EnvelopePoint, 0, n)
		for i := 0; i < n && d.Err() == nil; i++ {
			s.Envelope = append(s.Envelope, EnvelopePoint{Mark: d.ReadU32(), Left: d.ReadU16(), Right: d.ReadU16()})
		}
	}
	return s
}

// Size returns the encoded size in bytes.
func (s SoundInfo) Size() int {
	n := 1
	if s.InPoint != nil {
		n += 4
	}
	if s.OutPoint != nil {
		n += 4
	}
	if s.Loops != nil {
		n += 2
	}
	if s.Envelope != nil {
		n += 1 + 8*len(s.Envelope)
	}
	return n
}

// Write encodes the settings.
func (s SoundInfo) Write(e *coder.Encoder) {
	if len(s.Envelope) > 0xFF {
		e.SetError(errors.InvalidInput(errors.PhaseEncode, "sound envelope exceeds 255 points"))
		return
	}
	var flags uint8
	if s.Stop {
		flags |= soundSyncStop
	}
	if s.NoMultiple {
		flags |= soundSyncNoMultiple
	}
	if s.Envelope != nil {
		flags |= soundHasEnvelope
	}
	if s.Loops != nil {
		flags |= soundHasLoops
	}
	if s.OutPoint != nil {
		flags |= soundHasOutPoint
	}
	if s.InPoint != nil {
		flags |= soundHasInPoint
	}
	e.WriteU8(flags)
	if s.InPoint != nil {
		e.WriteU32(*s.InPoint)
	}
	if s.OutPoint != nil {
		e.WriteU32(*s.OutPoint)
	}
	if s.Loops != nil {
		e.WriteU16(*s.Loops)
	}
	if s.Envelope != nil {
		e.WriteU8(uint8(len(s.Envelope)))
		for _, p := range s.Envelope {
			e.WriteU32(p.Mark)
			e.WriteU16(p.Left)
			e.WriteU16(p.Right)
		}
	}
}

// StartSound2 plays a sound exported by class name.
type StartSound2 struct {
	Class string
	Info  SoundInfo
}

func decodeStartSound2(d *coder.Decoder, _ *coder.Context) (coder.Record, error) {
	d.Begin("StartSound2", coder.TagFormat)
	t := &StartSound2{Class: d.ReadCString(), Info: ReadSoundInfo(d)}
	if err := d.End(); err != nil {
		return nil, err
	}
	return t, nil
}

func (*StartSound2) Code() uint16 { return TagStartSound2 }
func (*StartSound2) Name() string { return "StartSound2" }

func (t *StartSound2) Prepare(ctx *coder.Context) (coder.Plan, error) {
	n, err := ctx.StringSize(t.Class)
	if err != nil {
		return coder.Plan{}, err
	}
	return coder.NewPlan(coder.TagFormat, TagStartSound2, n+t.Info.Size()), nil
}

func (t *StartSound2) Encode(e *coder.Encoder, p coder.Plan, _ *coder.Context) error {
	if err := p.Check(t, "StartSound2"); err != nil {
		return err
	}
	e.Begin("StartSound2", p)
	e.WriteString(t.Class)
	t.Info.Write(e)
	return e.End()
}
