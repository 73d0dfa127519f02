// Package movie reads and writes SWF movies on top of the coder package.
//
// It provides the file header, zlib compressed bodies, the tag loop and a
// catalogue of tags, actions and bit-packed data types. Tags not in the
// catalogue decode as coder.Opaque and are written back unchanged.
//
//	m, err := movie.Decode(data, movie.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	out, err := movie.Encode(m, movie.DefaultOptions())
//
// Walk visits tags together with their file offsets and raw bytes, which
// is what dump and diff tooling needs.
package movie
