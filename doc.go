// Package swf reads and writes SWF movies.
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	swf/                 Root package with file-level convenience functions
//	├── movie/           Movie header, compression, tag loop and record catalogue
//	├── coder/           Bit-level decoder and encoder, framing, registries
//	├── errors/          Structured error types for debugging
//	└── cmd/swfdump/     Command line inspector
//
// # Quick Start
//
//	m, err := swf.ReadFile("intro.swf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, tag := range m.Tags {
//	    fmt.Println(coder.RecordName(tag))
//	}
//	err = swf.WriteFile("copy.swf", m)
//
// # Records
//
// A movie is a header followed by a sequence of tags. Each tag is a record:
// a type code and a body length, then the body. Action lists, text spans and
// button handlers nest inside tags. Every record type decodes from a
// coder.Decoder and encodes in two passes, Prepare to size it and Encode to
// write exactly the planned bytes, so a whole movie is written into one
// buffer allocated at its final size.
//
// Tags without a registered decoder are kept as coder.Opaque and written
// back byte for byte. Register additional decoders on a registry from
// movie.DefaultTags or movie.DefaultActions and pass it in movie.Options.
//
// # Errors
//
// Errors are *errors.Error values with a phase and a kind, or
// *errors.FramingError when a record's body disagrees with its declared
// length. Use errors.KindOf to classify them.
package swf
