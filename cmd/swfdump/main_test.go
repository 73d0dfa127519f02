package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/movie"
)

func writeMovie(t *testing.T, c movie.Compression) string {
	t.Helper()
	m := &movie.Movie{
		Compression: c,
		Version:     10,
		FrameSize:   movie.Bounds{MaxX: 11000, MaxY: 8000},
		FrameRate:   24 << 8,
		FrameCount:  1,
		Tags: []coder.Record{
			&movie.SetBackgroundColor{Color: movie.Color{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}},
			&movie.FrameLabel{Label: "intro"},
			&movie.DoAction{Actions: []coder.Record{&movie.GotoFrame{Frame: 2}, &movie.BasicAction{}}},
			&coder.Opaque{Format: coder.TagFormat, TypeCode: 777, Data: []byte{1, 2, 3}},
			&movie.ShowFrame{},
			&movie.End{},
		},
	}
	data, err := movie.Encode(m, movie.DefaultOptions())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "test.swf")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunText(t *testing.T) {
	path := writeMovie(t, movie.CompressionNone)
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"--digest", "--verify", path}, &out, &errOut))

	text := out.String()
	assert.Contains(t, text, "Version: 10 (none")
	assert.Contains(t, text, "24.00 fps")
	assert.Contains(t, text, "FrameLabel")
	assert.Contains(t, text, "opaque(777)")
	assert.Contains(t, text, "Re-encoding verified")
}

func TestRunYAML(t *testing.T) {
	path := writeMovie(t, movie.CompressionZlib)
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-f", "yaml", "-d", path}, &out, &errOut))

	var rep report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, "zlib", rep.Compression)
	assert.Equal(t, uint8(10), rep.Version)
	require.Len(t, rep.Tags, 6)
	assert.Equal(t, "SetBackgroundColor", rep.Tags[0].Name)
	assert.Equal(t, uint16(movie.TagDoAction), rep.Tags[2].Code)
	assert.Equal(t, "End", rep.Tags[5].Name)
	for _, tag := range rep.Tags {
		assert.Len(t, tag.Digest, 64)
	}
}

func TestRunCBOR(t *testing.T) {
	path := writeMovie(t, movie.CompressionNone)
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"--format=cbor", path}, &out, &errOut))

	var rep report
	require.NoError(t, cbor.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, path, rep.File)
	require.Len(t, rep.Tags, 6)
	assert.Equal(t, "opaque(777)", rep.Tags[3].Name)
	assert.Equal(t, 3, rep.Tags[3].Length)
	assert.Empty(t, rep.Tags[3].Digest)
}

func TestRunRewrite(t *testing.T) {
	path := writeMovie(t, movie.CompressionNone)
	dst := filepath.Join(t.TempDir(), "out.swf")
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-o", dst, "--compress", "zlib", path}, &out, &errOut))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, byte(movie.CompressionZlib), data[0])

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	m, err := movie.Decode(data, movie.DefaultOptions())
	require.NoError(t, err)
	m.Compression = movie.CompressionNone
	again, err := movie.Encode(m, movie.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, src, again)
}

func TestRunErrors(t *testing.T) {
	path := writeMovie(t, movie.CompressionNone)
	tests := []struct {
		name string
		want string
		args []string
	}{
		{"no file", "expected one input file", nil},
		{"bad format", "unknown format", []string{"-f", "xml", path}},
		{"bad encoding", "no-such-charset", []string{"-e", "no-such-charset", path}},
		{"bad log level", "unknown log level", []string{"--log-level", "loud", path}},
		{"missing file", "read file", []string{filepath.Join(t.TempDir(), "missing.swf")}},
		{"bad compression", "unknown compression", []string{"-o", filepath.Join(t.TempDir(), "x.swf"), "--compress", "lz4", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			err := run(tt.args, &out, &errOut)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunDebugLogging(t *testing.T) {
	path := writeMovie(t, movie.CompressionNone)
	t.Cleanup(func() { coder.SetLogger(nil) })
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"--log-level", "debug", "--log-format", "json", path}, &out, &errOut))

	logs := errOut.String()
	assert.Contains(t, logs, `"msg":"decoded tag"`)
	assert.Contains(t, logs, `"name":"FrameLabel"`)
	assert.True(t, strings.Count(logs, "\n") >= 6)
}

func TestInteractiveModel(t *testing.T) {
	path := writeMovie(t, movie.CompressionNone)
	m := newInteractiveModel(path, movie.DefaultOptions())
	assert.Equal(t, "Loading movie...", m.View())

	msg := m.loadMovie()
	m.Update(msg)
	require.Len(t, m.tags, 6)
	assert.Contains(t, m.View(), "SWF Browser")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateShowTag, m.state)
	view := m.View()
	assert.Contains(t, view, "FrameLabel")
	assert.Contains(t, view, "at offset")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateSelectTag, m.state)

	m.filter.SetValue("frame")
	m.applyFilter()
	assert.Len(t, m.visible, 2)
	m.filter.SetValue("nothing")
	m.applyFilter()
	assert.Empty(t, m.visible)
	assert.Equal(t, 0, m.selected)
}
