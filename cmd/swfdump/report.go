package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/swf/movie"
)

type tagEntry struct {
	Name   string `yaml:"name" cbor:"name"`
	Digest string `yaml:"digest,omitempty" cbor:"digest,omitempty"`
	Index  int    `yaml:"index" cbor:"index"`
	Offset int    `yaml:"offset" cbor:"offset"`
	Header int    `yaml:"header" cbor:"header"`
	Length int    `yaml:"length" cbor:"length"`
	Code   uint16 `yaml:"code" cbor:"code"`
}

type report struct {
	File        string     `yaml:"file" cbor:"file"`
	Compression string     `yaml:"compression" cbor:"compression"`
	FrameSize   string     `yaml:"frame_size" cbor:"frame_size"`
	Tags        []tagEntry `yaml:"tags" cbor:"tags"`
	Length      int        `yaml:"length" cbor:"length"`
	Trailing    int        `yaml:"trailing,omitempty" cbor:"trailing,omitempty"`
	FrameRate   float64    `yaml:"frame_rate" cbor:"frame_rate"`
	FrameCount  uint16     `yaml:"frame_count" cbor:"frame_count"`
	Version     uint8      `yaml:"version" cbor:"version"`
	Verified    bool       `yaml:"verified,omitempty" cbor:"verified,omitempty"`
}

func newTagEntry(tag movie.TagInfo, digest bool) tagEntry {
	e := tagEntry{
		Name:   tag.Name,
		Index:  tag.Index,
		Offset: tag.Offset,
		Header: tag.Header,
		Length: tag.Length,
		Code:   tag.Code,
	}
	if digest {
		sum := blake3.Sum256(tag.Raw)
		e.Digest = hex.EncodeToString(sum[:])
	}
	return e
}

func buildReport(file string, data []byte, opts movie.Options, digest bool) (*report, error) {
	rep := &report{File: file}
	h, trailing, err := movie.Walk(data, opts, func(tag movie.TagInfo) error {
		rep.Tags = append(rep.Tags, newTagEntry(tag, digest))
		return nil
	})
	if err != nil {
		return nil, err
	}
	rep.Compression = h.Compression.String()
	rep.Version = h.Version
	rep.Length = h.Length
	rep.FrameSize = h.FrameSize.String()
	rep.FrameRate = float64(h.FrameRate) / 256
	rep.FrameCount = h.FrameCount
	rep.Trailing = len(trailing)
	return rep, nil
}

// verify re-encodes the decoded movie and checks that every tag comes back
// byte for byte.
func verify(data []byte, opts movie.Options) error {
	var want [][]byte
	m := &movie.Movie{}
	h, trailing, err := movie.Walk(data, opts, func(tag movie.TagInfo) error {
		want = append(want, tag.Raw)
		m.Tags = append(m.Tags, tag.Record)
		return nil
	})
	if err != nil {
		return err
	}
	m.Compression = h.Compression
	m.Version = h.Version
	m.FrameSize = h.FrameSize
	m.FrameRate = h.FrameRate
	m.FrameCount = h.FrameCount
	m.Trailing = trailing

	out, err := movie.Encode(m, opts)
	if err != nil {
		return fmt.Errorf("re-encode: %w", err)
	}
	i := 0
	_, _, err = movie.Walk(out, opts, func(tag movie.TagInfo) error {
		if i >= len(want) {
			return fmt.Errorf("re-encoded movie has extra tag %d (%s)", tag.Index, tag.Name)
		}
		if !bytes.Equal(tag.Raw, want[i]) {
			return fmt.Errorf("tag %d (%s) differs after re-encoding", tag.Index, tag.Name)
		}
		i++
		return nil
	})
	if err != nil {
		return err
	}
	if i != len(want) {
		return fmt.Errorf("re-encoded movie has %d tags, want %d", i, len(want))
	}
	return nil
}

func writeReport(w io.Writer, rep *report, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		data, err := cbor.Marshal(rep)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return writeText(w, rep)
	}
}

func writeText(w io.Writer, rep *report) error {
	fmt.Fprintf(w, "Movie: %s\n", rep.File)
	fmt.Fprintf(w, "Version: %d (%s, %d bytes)\n", rep.Version, rep.Compression, rep.Length)
	fmt.Fprintf(w, "Frame: %s at %.2f fps, %d frames\n", rep.FrameSize, rep.FrameRate, rep.FrameCount)
	fmt.Fprintf(w, "Tags: %d\n\n", len(rep.Tags))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tOFFSET\tCODE\tNAME\tHEADER\tLENGTH\tDIGEST")
	for _, t := range rep.Tags {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%d\t%d\t%s\n", t.Index, t.Offset, t.Code, t.Name, t.Header, t.Length, t.Digest)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if rep.Trailing > 0 {
		fmt.Fprintf(w, "\n%d trailing bytes after End\n", rep.Trailing)
	}
	if rep.Verified {
		fmt.Fprintln(w, "\nRe-encoding verified")
	}
	return nil
}
