package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/movie"
)

type config struct {
	file        string
	format      string
	encoding    string
	output      string
	compression string
	logLevel    string
	logFormat   string
	maxDepth    int
	maxInflated int
	digest      bool
	verify      bool
	rawActions  bool
	interactive bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	c := &config{}
	fs := pflag.NewFlagSet("swfdump", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&c.format, "format", "f", "text", "Output format: text, yaml or cbor")
	fs.StringVarP(&c.encoding, "encoding", "e", "", "Text encoding of strings (default by movie version)")
	fs.StringVarP(&c.output, "output", "o", "", "Re-encode the movie to this file")
	fs.StringVar(&c.compression, "compress", "", "Compression of the re-encoded movie: none or zlib (default: as read)")
	fs.StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", "console", "Log format: console or json")
	fs.IntVar(&c.maxDepth, "max-depth", coder.DefaultMaxDepth, "Maximum record nesting depth")
	fs.IntVar(&c.maxInflated, "max-inflated", movie.DefaultMaxInflatedSize, "Maximum decompressed body size in bytes")
	fs.BoolVarP(&c.digest, "digest", "d", false, "Include a BLAKE3 digest of each tag")
	fs.BoolVar(&c.verify, "verify", false, "Re-encode the movie and compare every tag with its source bytes")
	fs.BoolVar(&c.rawActions, "raw-actions", false, "Keep action lists as raw bytes")
	fs.BoolVarP(&c.interactive, "interactive", "i", false, "Interactive mode with TUI")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: swfdump [flags] <file.swf>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	c.file = fs.Arg(0)
	switch c.format {
	case "text", "yaml", "cbor":
	default:
		return nil, fmt.Errorf("unknown format: %q", c.format)
	}
	if c.encoding != "" {
		if err := coder.ValidEncoding(c.encoding); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *config) options() movie.Options {
	opts := movie.DefaultOptions()
	opts.Encoding = c.encoding
	opts.MaxDepth = c.maxDepth
	opts.MaxInflatedSize = c.maxInflated
	if c.rawActions {
		opts.Actions = nil
	}
	return opts
}

func run(args []string, stdout, stderr io.Writer) error {
	c, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := setupLogger(c.logLevel, c.logFormat, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	coder.SetLogger(logger)

	if c.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(c.file, c.options())
	}

	data, err := os.ReadFile(c.file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	rep, err := buildReport(c.file, data, c.options(), c.digest)
	if err != nil {
		return err
	}
	if c.verify {
		if err := verify(data, c.options()); err != nil {
			return err
		}
		rep.Verified = true
	}
	if err := writeReport(stdout, rep, c.format); err != nil {
		return err
	}
	if c.output != "" {
		return rewrite(c, data)
	}
	return nil
}

// rewrite decodes the input and writes it back out, optionally with a
// different compression.
func rewrite(c *config, data []byte) error {
	opts := c.options()
	m, err := movie.Decode(data, opts)
	if err != nil {
		return err
	}
	if c.compression != "" {
		comp, err := movie.ParseCompression(c.compression)
		if err != nil {
			return err
		}
		m.Compression = comp
	}
	out, err := movie.Encode(m, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.output, out, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
