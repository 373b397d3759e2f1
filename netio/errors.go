package netio

import "github.com/cockroachdb/errors"

// ErrConnectionClosed is returned by Framer.Next when the peer has closed
// the socket (read hit EOF at a frame boundary).
var ErrConnectionClosed = errors.New("netio: connection closed")

// ErrMalformedLength is returned when a frame's declared length is
// negative or otherwise cannot be satisfied.
var ErrMalformedLength = errors.New("netio: malformed frame length")

// ErrDecompressionFailed is returned when a compressed frame's payload
// cannot be inflated to its declared length.
var ErrDecompressionFailed = errors.New("netio: decompression failed")
