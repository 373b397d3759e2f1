package codec

import (
	"bytes"
	"compress/zlib"
	"io"
)

// EncodeFrame builds the on-wire bytes for one packet per the Options'
// chosen Mode. id and body are the packet id and its already-encoded
// payload; ModeNone/ModeWithLength never touch compression, ModeCompressed
// only deflates once the uncompressed id+body reaches Threshold.
func EncodeFrame(id int32, body []byte, opts Options) ([]byte, error) {
	var idBody bytes.Buffer
	if err := EncodeVarInt(&idBody, id); err != nil {
		return nil, err
	}
	idBody.Write(body)

	switch opts.Mode {
	case ModeNone:
		return idBody.Bytes(), nil

	case ModeWithLength:
		var out bytes.Buffer
		if err := EncodeVarInt(&out, int32(idBody.Len())); err != nil {
			return nil, err
		}
		out.Write(idBody.Bytes())
		return out.Bytes(), nil

	case ModeCompressed:
		return encodeCompressedFrame(idBody.Bytes(), opts.Threshold)

	default:
		return idBody.Bytes(), nil
	}
}

func encodeCompressedFrame(idBody []byte, threshold int32) ([]byte, error) {
	var out bytes.Buffer

	if int32(len(idBody)) < threshold {
		// Below threshold: dataLength=0 signals the remainder is raw.
		var inner bytes.Buffer
		if err := EncodeVarInt(&inner, 0); err != nil {
			return nil, err
		}
		inner.Write(idBody)

		if err := EncodeVarInt(&out, int32(inner.Len())); err != nil {
			return nil, err
		}
		out.Write(inner.Bytes())
		return out.Bytes(), nil
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(idBody); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var inner bytes.Buffer
	if err := EncodeVarInt(&inner, int32(len(idBody))); err != nil {
		return nil, err
	}
	inner.Write(compressed.Bytes())

	if err := EncodeVarInt(&out, int32(inner.Len())); err != nil {
		return nil, err
	}
	out.Write(inner.Bytes())
	return out.Bytes(), nil
}

// DecodeCompressedBody reverses encodeCompressedFrame's inner section: given
// the bytes after the outer packetLength VarInt, it returns the raw id+body.
func DecodeCompressedBody(r Reader) ([]byte, error) {
	dataLength, err := DecodeVarInt(r)
	if err != nil {
		return nil, err
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

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
