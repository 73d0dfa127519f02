package swf

import (
	"os"

	"github.com/wippyai/swf/errors"
	"github.com/wippyai/swf/movie"
)

// Decode decodes a movie with the default registries.
func Decode(data []byte) (*movie.Movie, error) {
	return movie.Decode(data, movie.DefaultOptions())
}

// Encode encodes a movie with the default options.
func Encode(m *movie.Movie) ([]byte, error) {
	return movie.Encode(m, movie.DefaultOptions())
}

// ReadFile reads and decodes the movie at path.
func ReadFile(path string) (*movie.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	return Decode(data)
}

// WriteFile encodes m and writes it to path.
func WriteFile(path string, m *movie.Movie) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "write "+path)
	}
	return nil
}
