package codec

import "github.com/cockroachdb/errors"

// ErrMalformedVarInt is returned when a VarInt/VarLong continues past its
// maximum byte width without terminating.
var ErrMalformedVarInt = errors.New("codec: malformed varint")

// ErrStringTooLong is returned when a decoded string's declared length
// exceeds the configured maximum.
var ErrStringTooLong = errors.New("codec: string exceeds maximum length")

// ErrSequenceTooLong is returned when a decoded length-prefixed sequence's
// declared count exceeds the configured maximum.
var ErrSequenceTooLong = errors.New("codec: sequence exceeds maximum length")

// ErrDecompressionFailed is returned when a compressed frame's zlib stream
// cannot be inflated to its declared dataLength.
var ErrDecompressionFailed = errors.New("codec: decompression failed")
