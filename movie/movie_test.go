package movie

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

func movieFixture(c Compression) *Movie {
	return &Movie{
		Compression: c,
		Version:     10,
		FrameSize:   Bounds{MaxX: 11000, MaxY: 8000},
		FrameRate:   24 << 8,
		FrameCount:  1,
		Tags: []coder.Record{
			&SetBackgroundColor{Color: Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
			&FrameLabel{Label: "start"},
			textFixture(),
			buttonFixture(),
			&DoAction{Actions: []coder.Record{&GotoFrame{Frame: 1}, &BasicAction{Op: uint8(ActionStop)}, &BasicAction{}}},
			&coder.Opaque{Format: coder.TagFormat, TypeCode: 777, Data: []byte{1, 2, 3}},
			&ShowFrame{},
			&End{},
		},
	}
}

func TestMovieRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZlib} {
		t.Run(c.String(), func(t *testing.T) {
			m := movieFixture(c)
			data, err := Encode(m, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, byte(c), data[0])
			assert.Equal(t, "WS", string(data[1:3]))

			got, err := Decode(data, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, m, got)

			again, err := Encode(got, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, data, again)
		})
	}
}

func TestMovieDeclaredLength(t *testing.T) {
	data, err := Encode(movieFixture(CompressionNone), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(data[4:8]))

	short := append([]byte(nil), data[:len(data)-1]...)
	_, err = Decode(short, DefaultOptions())
	assert.Equal(t, errors.KindInvalidData, errors.KindOf(err))
}

func TestMovieTrailingBytes(t *testing.T) {
	m := movieFixture(CompressionNone)
	m.Trailing = []byte{0xDE, 0xAD}
	data, err := Encode(m, DefaultOptions())
	require.NoError(t, err)

	got, err := Decode(data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, m.Trailing, got.Trailing)
}

func TestMovieHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind errors.Kind
	}{
		{"short", []byte("FWS"), errors.KindInvalidData},
		{"signature", []byte("GIF89a\x00\x00"), errors.KindInvalidData},
		{"lzma", []byte("ZWS\x0d\x08\x00\x00\x00"), errors.KindUnsupported},
		{"zlib garbage", []byte("CWS\x0a\x20\x00\x00\x00garbage"), errors.KindInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, DefaultOptions())
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
		})
	}
}

func TestMovieInflateLimit(t *testing.T) {
	data, err := Encode(movieFixture(CompressionZlib), DefaultOptions())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxInflatedSize = 16
	_, err = Decode(data, opts)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.PhaseCompress, e.Phase)
}

func TestWalk(t *testing.T) {
	m := movieFixture(CompressionZlib)
	data, err := Encode(m, DefaultOptions())
	require.NoError(t, err)

	var infos []TagInfo
	h, trailing, err := Walk(data, DefaultOptions(), func(tag TagInfo) error {
		infos = append(infos, tag)
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, trailing)
	assert.Equal(t, m.FrameSize, h.FrameSize)
	require.Len(t, infos, len(m.Tags))

	offset := HeaderSize + m.FrameSize.Size() + 4
	for i, info := range infos {
		assert.Equal(t, i, info.Index)
		assert.Equal(t, offset, info.Offset)
		assert.Equal(t, info.Header+info.Length, len(info.Raw))
		assert.Equal(t, encodeRecord(t, m.Tags[i], newContext()), info.Raw)
		offset += len(info.Raw)
	}
	assert.Equal(t, h.Length, offset)
	assert.Equal(t, "DefineText2", infos[2].Name)
	assert.Equal(t, "opaque(777)", infos[5].Name)
}

func TestWalkStops(t *testing.T) {
	data, err := Encode(movieFixture(CompressionNone), DefaultOptions())
	require.NoError(t, err)

	stop := errors.InvalidInput(errors.PhaseDecode, "stop")
	count := 0
	_, _, err = Walk(data, DefaultOptions(), func(TagInfo) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}

func TestMovieLegacyEncoding(t *testing.T) {
	m := movieFixture(CompressionNone)
	m.Version = 5
	m.Tags = []coder.Record{&FrameLabel{Label: "é"}, &End{}}
	data, err := Encode(m, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\xe9\x00")

	got, err := Decode(data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestMovieWithoutActionRegistry(t *testing.T) {
	data, err := Encode(movieFixture(CompressionNone), DefaultOptions())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Actions = nil
	got, err := Decode(data, opts)
	require.NoError(t, err)
	do := got.Tags[4].(*DoAction)
	assert.NotNil(t, do.Raw)

	again, err := Encode(got, opts)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestCompressionNames(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZlib, CompressionLZMA} {
		parsed, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func FuzzDecode(f *testing.F) {
	seed, err := Encode(movieFixture(CompressionNone), DefaultOptions())
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seed)
	f.Add([]byte("FWS\x0a\x0d\x00\x00\x00\x00\x00\x00\x00\x00"))
	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := Decode(data, DefaultOptions())
		if err != nil {
			return
		}
		_, _ = Encode(m, DefaultOptions())
	})
}
