package codec

import "io"

const (
	varIntSegmentBits = 0x7F
	varIntContinueBit = 0x80
	maxVarIntBytes    = 5
	maxVarLongBytes   = 10
)

// EncodeVarInt writes v using base-128 little-endian continuation encoding.
func EncodeVarInt(w io.ByteWriter, v int32) error {
	u := uint32(v)
	for {
		if u&^varIntSegmentBits == 0 {
			return w.WriteByte(byte(u))
		}
		if err := w.WriteByte(byte(u&varIntSegmentBits) | varIntContinueBit); err != nil {
			return err
		}
		u >>= 7
	}
}

// DecodeVarInt reads a VarInt, failing with ErrMalformedVarInt past 5 bytes.
func DecodeVarInt(r io.ByteReader) (int32, error) {
	var value uint32
	var position uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		value |= uint32(b&varIntSegmentBits) << position
		if b&varIntContinueBit == 0 {
			break
		}

		position += 7
		if position >= maxVarIntBytes*7 {
			return 0, ErrMalformedVarInt
		}
	}
	return int32(value), nil
}

// SizeVarInt returns the encoded byte length of v without writing it.
func SizeVarInt(v int32) int {
	u := uint32(v)
	n := 1
	for u&^varIntSegmentBits != 0 {
		u >>= 7
		n++
	}
	return n
}

// EncodeVarLong writes v using the 64-bit analogue of VarInt (max 10 bytes).
func EncodeVarLong(w io.ByteWriter, v int64) error {
	u := uint64(v)
	for {
		if u&^uint64(varIntSegmentBits) == 0 {
			return w.WriteByte(byte(u))
		}
		if err := w.WriteByte(byte(u&varIntSegmentBits) | varIntContinueBit); err != nil {
			return err
		}
		u >>= 7
	}
}

// DecodeVarLong reads a VarLong, failing with ErrMalformedVarInt past 10 bytes.
func DecodeVarLong(r io.ByteReader) (int64, error) {
	var value uint64
	var position uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		value |= uint64(b&varIntSegmentBits) << position
		if b&varIntContinueBit == 0 {
			break
		}

		position += 7
		if position >= maxVarLongBytes*7 {
			return 0, ErrMalformedVarInt
		}
	}
	return int64(value), nil
}
