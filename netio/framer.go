package netio

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"errors"
	"io"

	"github.com/k64z/ferrumgo/codec"
)

// PacketSkeleton is one decoded frame: its packet id and a cursor over the
// remaining payload bytes, left positioned at the start of the payload.
type PacketSkeleton struct {
	ID   int32
	Data *bytes.Reader
}

// Framer reads one PacketSkeleton per Next call from an underlying byte
// stream, transparently decompressing when compression is enabled.
type Framer struct {
	r *bufio.Reader
}

// NewFramer wraps r for frame-at-a-time reading.
func NewFramer(r io.Reader) *Framer {
	return &Framer{r: bufio.NewReader(r)}
}

// Next reads one frame. compressionEnabled reflects the connection's current
// CompressionStatus component at call time (compression toggles mid-stream
// only at the point Login enables it).
func (f *Framer) Next(compressionEnabled bool) (PacketSkeleton, error) {
	length, err := codec.DecodeVarInt(f.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return PacketSkeleton{}, ErrConnectionClosed
		}
		return PacketSkeleton{}, err
	}
	if length < 0 {
		return PacketSkeleton{}, ErrMalformedLength
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(f.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return PacketSkeleton{}, ErrConnectionClosed
		}
		return PacketSkeleton{}, err
	}

	body := buf
	if compressionEnabled {
		body, err = decompressFrame(buf)
		if err != nil {
			return PacketSkeleton{}, err
		}
	}

	r := bytes.NewReader(body)
	id, err := codec.DecodeVarInt(r)
	if err != nil {
		return PacketSkeleton{}, ErrMalformedLength
	}

	return PacketSkeleton{ID: id, Data: r}, nil
}

func decompressFrame(buf []byte) ([]byte, error) {
	r := bytes.NewReader(buf)
	dataLength, err := codec.DecodeVarInt(r)
	if err != nil {
		return nil, ErrMalformedLength
	}

	rest := buf[len(buf)-r.Len():]
	if dataLength == 0 {
		return rest, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, ErrDecompressionFailed
	}
	defer zr.Close()

	out := make([]byte, dataLength)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, ErrDecompressionFailed
	}
	return out, nil
}
