// Package imaging provides the byte-stream codec used to shrink picture
// payloads before they are persisted.
package imaging

import (
	"bytes"
	"io"

	"github.com/go-faster/errors"
	"github.com/klauspost/compress/zlib"
)

// ErrMalformed is returned by Decompress when the input is not valid output
// of Compress (truncated stream, wrong format, corrupted checksum).
var ErrMalformed = errors.New("malformed zlib data")

// ZlibCodec is a pure, stateless zlib transform. The zero value is ready to
// use and safe for concurrent calls.
type ZlibCodec struct{}

// Compress deflates data into a zlib stream. It round-trips exactly with
// Decompress for every byte sequence, including the empty one.
func (ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, errors.Wrap(err, "deflate")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "flush")
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream produced by Compress. Input that is not a
// complete, valid stream yields ErrMalformed rather than partial bytes.
func (ZlibCodec) Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	defer func() { _ = zr.Close() }()

	// ReadAll drives the stream to EOF, which also verifies the trailing
	// checksum.
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	return raw, nil
}
