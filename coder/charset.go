package coder

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/wippyai/swf/errors"
)

// DefaultEncoding is the text encoding used for strings unless configured
// otherwise. Movies before version 6 used a platform code page instead.
const DefaultEncoding = "UTF-8"

// charset converts between Go strings and the encoded bytes of a stream.
// A nil enc means UTF-8, which is passed through unchanged so that
// malformed sequences survive a round trip.
type charset struct {
	enc  encoding.Encoding
	name string
}

func lookupCharset(phase errors.Phase, name string) (charset, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return charset{name: DefaultEncoding}, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return charset{}, errors.UnsupportedEncoding(phase, name, err)
	}
	return charset{enc: enc, name: name}, nil
}

// ValidEncoding reports whether name resolves to a usable text encoding.
func ValidEncoding(name string) error {
	_, err := lookupCharset(errors.PhaseLoad, name)
	return err
}

func (c charset) decode(b []byte) (string, error) {
	if c.enc == nil {
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(errors.PhaseDecode, errors.KindUnsupportedEncoding, err, "decode "+c.name+" string")
	}
	return string(out), nil
}

func (c charset) encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindUnsupportedEncoding, err, "encode "+c.name+" string")
	}
	return out, nil
}
