package codec

// Mode selects how a packet frame is written around an encoded value.
type Mode int

const (
	// ModeNone writes the body verbatim, no frame header. Used for
	// aggregated pre-framed blobs such as batched registry data.
	ModeNone Mode = iota
	// ModeWithLength writes the VarInt(length) frame header before the body.
	ModeWithLength
	// ModeCompressed writes the two-VarInt compressed frame header
	// (packetLength, dataLength) and zlib-compresses the body when its
	// uncompressed size reaches Threshold.
	ModeCompressed
)

// Options is the closed set of framing choices shared by every encode/decode
// call in this package and by the packet framer.
type Options struct {
	Mode      Mode
	Threshold int32 // only meaningful when Mode == ModeCompressed
	// MaxStringLength bounds String decoding; zero means DefaultMaxStringLength.
	MaxStringLength int32
}

// DefaultMaxStringLength is the Minecraft protocol's default string cap (characters).
const DefaultMaxStringLength = 32767

func (o Options) maxStringLength() int32 {
	if o.MaxStringLength <= 0 {
		return DefaultMaxStringLength
	}
	return o.MaxStringLength
}

// None is the zero-value options object: raw body, default limits.
var None = Options{Mode: ModeNone}

// WithLength is the options object selecting the length-prefixed frame.
var WithLength = Options{Mode: ModeWithLength}

// Compressed builds an Options selecting the compression-aware frame with
// the given threshold (packet bodies at or above this size are deflated).
func Compressed(threshold int32) Options {
	return Options{Mode: ModeCompressed, Threshold: threshold}
}
