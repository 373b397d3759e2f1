package codec

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []struct {
		value     int32
		wantBytes int
	}{
		{0, 1},
		{1, 1},
		{127, 1},
		{128, 2},
		{255, 2},
		{25565, 3},
		{2147483647, 5},
		{-1, 5},
	}

	for _, c := range cases {
		var buf bytes.Buffer
		if err := EncodeVarInt(&buf, c.value); err != nil {
			t.Fatalf("encode %d: %v", c.value, err)
		}
		if buf.Len() != c.wantBytes {
			t.Errorf("value %d: got %d bytes, want %d", c.value, buf.Len(), c.wantBytes)
		}

		got, err := DecodeVarInt(&buf)
		if err != nil {
			t.Fatalf("decode %d: %v", c.value, err)
		}
		if got != c.value {
			t.Errorf("roundtrip %d: got %d", c.value, got)
		}
	}
}

func TestDecodeVarIntOverlong(t *testing.T) {
	// 5 continuation bytes with the bit always set never terminates.
	buf := bytes.NewBuffer([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := DecodeVarInt(buf); err != ErrMalformedVarInt {
		t.Errorf("got %v, want ErrMalformedVarInt", err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeString(&buf, "alice"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeString(&buf, None)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "alice" {
		t.Errorf("got %q, want alice", got)
	}
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	EncodeVarInt(&buf, 100)
	buf.Write(make([]byte, 100))
	if _, err := DecodeString(&buf, Options{MaxStringLength: 10}); err != ErrStringTooLong {
		t.Errorf("got %v, want ErrStringTooLong", err)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	var buf bytes.Buffer
	if err := EncodeUUID(&buf, id); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeUUID(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != id {
		t.Errorf("got %s, want %s", got, id)
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	items := []testString{{"a"}, {"bb"}, {"ccc"}}

	var buf bytes.Buffer
	vals := make([]Value, len(items))
	for i, it := range items {
		vals[i] = it
	}
	if err := EncodeSequence(&buf, vals); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeSequence(&buf, 0, decodeTestString)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(items) {
		t.Fatalf("got %d items, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i].s != items[i].s {
			t.Errorf("item %d: got %q, want %q", i, got[i].s, items[i].s)
		}
	}
}

func TestOptionalRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	val := testString{"present"}
	if err := EncodeOptional[testString](&buf, &val); err != nil {
		t.Fatalf("encode present: %v", err)
	}
	got, err := DecodeOptional(&buf, decodeTestString)
	if err != nil {
		t.Fatalf("decode present: %v", err)
	}
	if got == nil || got.s != "present" {
		t.Fatalf("got %v, want present", got)
	}

	buf.Reset()
	if err := EncodeOptional[testString](&buf, nil); err != nil {
		t.Fatalf("encode absent: %v", err)
	}
	got, err = DecodeOptional(&buf, decodeTestString)
	if err != nil {
		t.Fatalf("decode absent: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	p := Position{X: -123456, Y: 64, Z: 987654}
	var buf bytes.Buffer
	if err := EncodePosition(&buf, p); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodePosition(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != p {
		t.Errorf("got %+v, want %+v", got, p)
	}
}

func TestBitmask(t *testing.T) {
	mask := Bitmask(true, false, true, true)
	if !HasFlag(mask, 0) || HasFlag(mask, 1) || !HasFlag(mask, 2) || !HasFlag(mask, 3) {
		t.Errorf("got mask %08b", mask)
	}
}

func TestCompressedFrameRoundTrip(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 512)
	frame, err := EncodeFrame(1, body, Compressed(64))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	r := bytes.NewReader(frame)
	packetLength, err := DecodeVarInt(r)
	if err != nil {
		t.Fatalf("decode packet length: %v", err)
	}
	limited := bytes.NewReader(frame[len(frame)-int(packetLength):])

	raw, err := DecodeCompressedBody(limited)
	if err != nil {
		t.Fatalf("decode compressed body: %v", err)
	}

	idR := bytes.NewReader(raw)
	id, err := DecodeVarInt(idR)
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	if id != 1 {
		t.Errorf("got id %d, want 1", id)
	}
}

type testString struct{ s string }

func (t testString) EncodeTo(w Writer) error { return EncodeString(w, t.s) }

func decodeTestString(r Reader) (testString, error) {
	s, err := DecodeString(r, None)
	return testString{s}, err
}
