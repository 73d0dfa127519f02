package movie

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

// HeaderSize is the length of the signature, version and file length
// that precede the (possibly compressed) body.
const HeaderSize = 8

// DefaultMaxInflatedSize bounds the size of a decompressed body.
const DefaultMaxInflatedSize = 64 << 20

// legacyEncoding is the text encoding of movies before version 6.
const legacyEncoding = "windows-1252"

// Options configures movie decoding and encoding.
type Options struct {
	// Tags and Actions dispatch records by type code. A nil Actions
	// registry keeps action lists as raw bytes.
	Tags    *coder.Registry
	Actions *coder.Registry
	// Encoding names the text encoding of strings. Empty selects UTF-8 for
	// version 6 and later and windows-1252 before.
	Encoding string
	// MaxDepth bounds record nesting.
	MaxDepth int
	// MaxInflatedSize bounds the decompressed body of a compressed movie.
	MaxInflatedSize int
}

// DefaultOptions returns options using the default registries.
func DefaultOptions() Options {
	return Options{
		Tags:            DefaultTags(),
		Actions:         DefaultActions(),
		MaxDepth:        coder.DefaultMaxDepth,
		MaxInflatedSize: DefaultMaxInflatedSize,
	}
}

func (o Options) coderOptions(version uint8) coder.Options {
	enc := o.Encoding
	if enc == "" {
		enc = coder.DefaultEncoding
		if version < 6 {
			enc = legacyEncoding
		}
	}
	return coder.Options{Encoding: enc, MaxDepth: o.MaxDepth}
}

func (o Options) tags() *coder.Registry {
	if o.Tags == nil {
		return DefaultTags()
	}
	return o.Tags
}

func (o Options) maxInflated() int {
	if o.MaxInflatedSize <= 0 {
		return DefaultMaxInflatedSize
	}
	return o.MaxInflatedSize
}

// Movie is a decoded file: the header fields and the tag sequence.
type Movie struct {
	Compression Compression
	Version     uint8
	FrameSize   Bounds
	FrameRate   uint16 // 8.8 fixed point frames per second
	FrameCount  uint16
	Tags        []coder.Record
	// Trailing holds bytes found after the End tag.
	Trailing []byte
}

// Header is the fixed part of a movie that precedes its tags.
type Header struct {
	Compression Compression
	Version     uint8
	Length      int // declared uncompressed file length
	FrameSize   Bounds
	FrameRate   uint16
	FrameCount  uint16
}

// TagInfo describes one tag found by Walk.
type TagInfo struct {
	Record coder.Record
	Name   string
	Raw    []byte // header and body
	Index  int
	Offset int // in the uncompressed file
	Code   uint16
	Header int // header length in bytes
	Length int // body length in bytes
}

// WalkFunc is called for each tag in order. Returning an error stops the
// walk and is returned from Walk.
type WalkFunc func(tag TagInfo) error

// Walk decodes the movie header and then each tag, calling fn with the tag
// and its location. It stops after the End tag or at the end of the data,
// and returns the header and any bytes after End.
func Walk(data []byte, opts Options, fn WalkFunc) (*Header, []byte, error) {
	h, body, err := readHeader(data, opts)
	if err != nil {
		return nil, nil, err
	}
	d, err := coder.NewDecoder(body, opts.coderOptions(h.Version))
	if err != nil {
		return nil, nil, err
	}
	tags := opts.tags()
	ctx := coder.NewContext(tags, opts.Actions)
	if err := ctx.SetEncoding(d.Encoding()); err != nil {
		return nil, nil, err
	}

	h.FrameSize = ReadBounds(d)
	h.FrameRate = d.ReadU16()
	h.FrameCount = d.ReadU16()
	if err := d.Err(); err != nil {
		return nil, nil, errors.Load("read frame header", err)
	}

	for i := 0; !d.EOF(); i++ {
		start := d.BytePos()
		th := d.PeekHeader(tags.Format())
		rec, err := tags.Decode(d, ctx)
		if err != nil {
			return nil, nil, err
		}
		info := TagInfo{
			Record: rec,
			Name:   tagName(tags, rec),
			Raw:    body[start:d.BytePos()],
			Index:  i,
			Offset: HeaderSize + start,
			Code:   rec.Code(),
			Header: th.Size,
			Length: th.Length,
		}
		coder.Logger().Debug("decoded tag",
			zap.Int("index", i),
			zap.Uint16("code", info.Code),
			zap.String("name", info.Name),
			zap.Int("length", info.Length))
		if err := fn(info); err != nil {
			return nil, nil, err
		}
		if rec.Code() == TagEnd {
			break
		}
	}
	var trailing []byte
	if !d.EOF() {
		trailing = body[d.BytePos():]
	}
	return h, trailing, nil
}

func tagName(reg *coder.Registry, rec coder.Record) string {
	if _, ok := rec.(*coder.Opaque); !ok {
		if n := reg.Name(rec.Code()); n != "" {
			return n
		}
	}
	return coder.RecordName(rec)
}

// readHeader validates the signature and declared length, and returns the
// uncompressed body that follows the first eight bytes.
func readHeader(data []byte, opts Options) (*Header, []byte, error) {
	if len(data) < HeaderSize {
		return nil, nil, errors.Load(fmt.Sprintf("file of %d bytes is shorter than the %d byte header", len(data), HeaderSize), nil)
	}
	if data[1] != 'W' || data[2] != 'S' {
		return nil, nil, errors.Load(fmt.Sprintf("bad signature %q", data[:3]), nil)
	}
	h := &Header{
		Compression: Compression(data[0]),
		Version:     data[3],
		Length:      int(binary.LittleEndian.Uint32(data[4:8])),
	}
	body := data[HeaderSize:]
	switch h.Compression {
	case CompressionNone:
	case CompressionZlib:
		limit := min(opts.maxInflated(), max(h.Length-HeaderSize, 0))
		var err error
		if body, err = inflate(body, limit); err != nil {
			return nil, nil, err
		}
	case CompressionLZMA:
		return nil, nil, errors.Unsupported(errors.PhaseLoad, "lzma compressed movies")
	default:
		return nil, nil, errors.Load(fmt.Sprintf("bad signature %q", data[:3]), nil)
	}
	if len(body)+HeaderSize != h.Length {
		return nil, nil, errors.Load(fmt.Sprintf("declared length %d, found %d", h.Length, len(body)+HeaderSize), nil)
	}
	return h, body, nil
}

// Decode decodes a complete movie.
func Decode(data []byte, opts Options) (*Movie, error) {
	var tags []coder.Record
	h, trailing, err := Walk(data, opts, func(tag TagInfo) error {
		tags = append(tags, tag.Record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Movie{
		Compression: h.Compression,
		Version:     h.Version,
		FrameSize:   h.FrameSize,
		FrameRate:   h.FrameRate,
		FrameCount:  h.FrameCount,
		Tags:        tags,
		Trailing:    trailing,
	}, nil
}

// Encode encodes the movie, compressing the body when m.Compression asks
// for it. A zero Compression writes an uncompressed movie. Tags are prepared first so the output buffer is allocated once
// at its exact size.
func Encode(m *Movie, opts Options) ([]byte, error) {
	copts := opts.coderOptions(m.Version)
	ctx := coder.NewContext(opts.Tags, opts.Actions)
	if err := ctx.SetEncoding(copts.Encoding); err != nil {
		return nil, err
	}
	plans, n, err := prepareRecords(m.Tags, ctx)
	if err != nil {
		return nil, err
	}
	size := m.FrameSize.Size() + 4 + n + len(m.Trailing)
	e, err := coder.NewEncoder(HeaderSize+size, copts)
	if err != nil {
		return nil, err
	}

	comp := m.Compression
	if comp == 0 {
		comp = CompressionNone
	}
	e.WriteBytes([]byte{byte(comp), 'W', 'S', m.Version})
	e.WriteU32(uint32(HeaderSize + size))
	m.FrameSize.Write(e)
	e.WriteU16(m.FrameRate)
	e.WriteU16(m.FrameCount)
	encodeRecords(e, m.Tags, plans, ctx)
	e.WriteBytes(m.Trailing)
	if err := e.Err(); err != nil {
		return nil, err
	}
	if !e.EOF() {
		return nil, errors.InvalidData(errors.PhaseEncode, nil,
			fmt.Sprintf("wrote %d of %d planned bytes", e.Pos()>>3, HeaderSize+size))
	}

	out := e.Data()
	switch comp {
	case CompressionNone:
		return out, nil
	case CompressionZlib:
		body, err := deflate(out[HeaderSize:])
		if err != nil {
			return nil, err
		}
		return append(out[:HeaderSize:HeaderSize], body...), nil
	default:
		return nil, errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("%s compressed movies", comp))
	}
}
