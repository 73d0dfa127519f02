package coder

// DefaultMaxDepth bounds how deeply records may nest.
const DefaultMaxDepth = 64

// Options configures a Decoder or Encoder.
type Options struct {
	// Encoding names the text encoding of strings (IANA name).
	Encoding string
	// MaxDepth is the deepest permitted record nesting. Zero or less
	// selects DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the default coder options.
func DefaultOptions() Options {
	return Options{
		Encoding: DefaultEncoding,
		MaxDepth: DefaultMaxDepth,
	}
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
