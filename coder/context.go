package coder

import (
	"github.com/wippyai/swf/errors"
)

// Key names an integer value that a record makes visible to the records
// nested inside it.
type Key uint8

const (
	// KeyTransparent marks colours as carrying an alpha channel.
	KeyTransparent Key = iota
	// KeyGlyphSize is the bit width of glyph indices in a text record.
	KeyGlyphSize
	// KeyAdvanceSize is the bit width of glyph advances in a text record.
	KeyAdvanceSize
	// KeyLast marks the record being coded as the last of its sequence.
	KeyLast

	numKeys
)

var keyNames = [numKeys]string{"transparent", "glyph_size", "advance_size", "last"}

func (k Key) String() string {
	if k < numKeys {
		return keyNames[k]
	}
	return "unknown"
}

// Binding is a key and the value it holds within a scope.
type Binding struct {
	Key   Key
	Value int32
}

// Context is the state shared by the records of one decode or encode run:
// the registries used for nested dispatch, the text encoding and the
// scoped integer keys.
//
// A Context is not safe for concurrent use.
type Context struct {
	Tags    *Registry
	Actions *Registry

	charset charset
	values  [numKeys]int32
	present [numKeys]bool
}

// NewContext creates a Context using UTF-8 strings.
func NewContext(tags, actions *Registry) *Context {
	return &Context{
		Tags:    tags,
		Actions: actions,
		charset: charset{name: DefaultEncoding},
	}
}

// Put sets k to v. Keys outside the defined set are ignored.
func (c *Context) Put(k Key, v int32) {
	if k >= numKeys {
		return
	}
	c.values[k] = v
	c.present[k] = true
}

// Get returns the value of k, or zero when k is unset.
func (c *Context) Get(k Key) int32 {
	v, _ := c.Lookup(k)
	return v
}

// Lookup returns the value of k and whether it is set.
func (c *Context) Lookup(k Key) (int32, bool) {
	if k >= numKeys {
		return 0, false
	}
	return c.values[k], c.present[k]
}

// Contains reports whether k is set.
func (c *Context) Contains(k Key) bool {
	_, ok := c.Lookup(k)
	return ok
}

// Remove unsets k.
func (c *Context) Remove(k Key) {
	if k >= numKeys {
		return
	}
	c.values[k] = 0
	c.present[k] = false
}

// Scope applies the bindings and returns a function that restores every
// bound key to the state it had before. The restore function is meant to
// be deferred so that keys are reset on every exit path; calling it more
// than once has no further effect.
func (c *Context) Scope(bindings ...Binding) (restore func()) {
	type saved struct {
		key     Key
		value   int32
		present bool
	}
	prior := make([]saved, len(bindings))
	for i, b := range bindings {
		v, ok := c.Lookup(b.Key)
		prior[i] = saved{key: b.Key, value: v, present: ok}
		c.Put(b.Key, b.Value)
	}
	done := false
	return func() {
		if done {
			return
		}
		done = true
		for i := len(prior) - 1; i >= 0; i-- {
			s := prior[i]
			if s.present {
				c.Put(s.key, s.value)
			} else {
				c.Remove(s.key)
			}
		}
	}
}

// SetEncoding selects the text encoding used to size strings.
func (c *Context) SetEncoding(name string) error {
	cs, err := lookupCharset(errors.PhaseEncode, name)
	if err != nil {
		return err
	}
	c.charset = cs
	return nil
}

// Encoding returns the name of the text encoding.
func (c *Context) Encoding() string {
	return c.charset.name
}

// StringSize returns the encoded size of s including its terminating zero.
func (c *Context) StringSize(s string) (int, error) {
	b, err := c.charset.encode(s)
	if err != nil {
		return 0, err
	}
	return len(b) + 1, nil
}

// FixedStringSize returns the encoded size of s without a terminator.
func (c *Context) FixedStringSize(s string) (int, error) {
	b, err := c.charset.encode(s)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}
