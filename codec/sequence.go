package codec

// Value is implemented by every wire type the codec knows how to frame.
// Packet structs (in the protocol package) implement this directly; it is
// the declarative per-type schema the codec is the sole reader of.
type Value interface {
	EncodeTo(w Writer) error
}

// Decoder mirrors Value for the read direction. Implementations are free
// functions (e.g. DecodeGameProfile) rather than methods since Go has no
// static-dispatch constructor; generic helpers below take one as a parameter.

// EncodeSequence writes a VarInt count followed by count encodings of T.
func EncodeSequence[T Value](w Writer, items []T) error {
	if err := EncodeVarInt(w, int32(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := item.EncodeTo(w); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSequence reads a VarInt count and decodes that many T via decode,
// failing with ErrSequenceTooLong when count exceeds maxLen (<=0 means
// unbounded).
func DecodeSequence[T any](r Reader, maxLen int, decode func(Reader) (T, error)) ([]T, error) {
	count, err := DecodeVarInt(r)
	if err != nil {
		return nil, err
	}
	if count < 0 || (maxLen > 0 && int(count) > maxLen) {
		return nil, ErrSequenceTooLong
	}

	items := make([]T, count)
	for i := range items {
		items[i], err = decode(r)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// EncodeOptional writes the untagged Optional<T> form: a boolean byte,
// followed by the encoding of *value iff present.
func EncodeOptional[T Value](w Writer, value *T) error {
	if err := EncodeBool(w, value != nil); err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	return (*value).EncodeTo(w)
}

// DecodeOptional reads the untagged Optional<T> form.
func DecodeOptional[T any](r Reader, decode func(Reader) (T, error)) (*T, error) {
	present, err := DecodeBool(r)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := decode(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
