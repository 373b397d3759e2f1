package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/google/uuid"
)

// Writer is the minimal interface every encoder writes through.
type Writer interface {
	io.Writer
	io.ByteWriter
}

// Reader is the minimal interface every decoder reads through.
type Reader interface {
	io.Reader
	io.ByteReader
}

// EncodeString writes a VarInt byte-length prefix followed by the UTF-8 bytes.
func EncodeString(w Writer, s string) error {
	if err := EncodeVarInt(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// DecodeString reads a VarInt-prefixed UTF-8 string, rejecting byte lengths
// beyond four times opts' configured maximum character count (the most bytes
// that many UTF-8 characters can occupy).
func DecodeString(r Reader, opts Options) (string, error) {
	length, err := DecodeVarInt(r)
	if err != nil {
		return "", err
	}
	if length < 0 || length > opts.maxStringLength()*4 {
		return "", ErrStringTooLong
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// EncodeBool writes a single boolean byte (0x00 / 0x01).
func EncodeBool(w Writer, v bool) error {
	if v {
		return w.WriteByte(1)
	}
	return w.WriteByte(0)
}

// DecodeBool reads a single boolean byte.
func DecodeBool(r Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// EncodeUint16 writes a big-endian uint16.
func EncodeUint16(w Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// DecodeUint16 reads a big-endian uint16.
func DecodeUint16(r Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// EncodeInt64 writes a big-endian int64.
func EncodeInt64(w Writer, v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

// DecodeInt64 reads a big-endian int64.
func DecodeInt64(r Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

// EncodeFloat64 writes a big-endian IEEE-754 double.
func EncodeFloat64(w Writer, v float64) error {
	return EncodeInt64(w, int64(math.Float64bits(v)))
}

// DecodeFloat64 reads a big-endian IEEE-754 double.
func DecodeFloat64(r Reader) (float64, error) {
	bits, err := DecodeInt64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

// EncodeFloat32 writes a big-endian IEEE-754 single.
func EncodeFloat32(w Writer, v float32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(v))
	_, err := w.Write(buf[:])
	return err
}

// DecodeFloat32 reads a big-endian IEEE-754 single.
func DecodeFloat32(r Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf[:])), nil
}

// EncodeUUID writes the 16 raw bytes of a UUID (no string form on the wire).
func EncodeUUID(w Writer, id uuid.UUID) error {
	_, err := w.Write(id[:])
	return err
}

// DecodeUUID reads 16 raw bytes into a UUID.
func DecodeUUID(r Reader) (uuid.UUID, error) {
	var id uuid.UUID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return uuid.UUID{}, err
	}
	return id, nil
}

// Position packs x/y/z block coordinates into the protocol's single int64.
type Position struct {
	X, Y, Z int64
}

// EncodePosition writes the packed x(26)|z(26)|y(12) bit layout.
func EncodePosition(w Writer, p Position) error {
	packed := ((p.X & 0x3FFFFFF) << 38) | ((p.Z & 0x3FFFFFF) << 12) | (p.Y & 0xFFF)
	return EncodeInt64(w, packed)
}

// DecodePosition reads the packed x/z/y layout back into signed components.
func DecodePosition(r Reader) (Position, error) {
	packed, err := DecodeInt64(r)
	if err != nil {
		return Position{}, err
	}
	x := signExtend(packed>>38, 26)
	z := signExtend(packed<<26>>38, 26)
	y := signExtend(packed<<52>>52, 12)
	return Position{X: x, Y: y, Z: z}, nil
}

func signExtend(v int64, bits uint) int64 {
	shift := 64 - bits
	return (v << shift) >> shift
}

// Bitmask derives a single byte from independent boolean flags: the i-th
// flag sets bit i, so the first flag is the least significant bit.
func Bitmask(flags ...bool) byte {
	var b byte
	for i, f := range flags {
		if f {
			b |= 1 << uint(i)
		}
	}
	return b
}

// HasFlag reports whether bit i is set in mask.
func HasFlag(mask byte, i int) bool {
	return mask&(1<<uint(i)) != 0
}
