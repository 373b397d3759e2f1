package protocol

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func TestGameProfileRoundTrip(t *testing.T) {
	profile := GameProfile{
		UUID:     uuid.New(),
		Username: "Notch",
		Properties: []ProfileProperty{
			{Name: "textures", Value: "base64blob", IsSigned: true, Signature: "sig"},
			{Name: "unsigned", Value: "v"},
		},
	}

	var buf bytes.Buffer
	if err := profile.EncodeTo(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeGameProfile(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UUID != profile.UUID || got.Username != profile.Username {
		t.Fatalf("got %+v, want %+v", got, profile)
	}
	if len(got.Properties) != 2 || got.Properties[0].Signature != "sig" {
		t.Fatalf("properties mismatch: %+v", got.Properties)
	}
}

func TestPlayerInfoUpdateRoundTrip(t *testing.T) {
	listed := true
	latency := int32(42)
	name := "displayed"
	update := PlayerInfoUpdate{
		Actions: ActionUpdateListed | ActionUpdateLatency | ActionUpdateDisplayName,
		Entries: []PlayerInfoEntry{
			{UUID: uuid.New(), Listed: &listed, Latency: &latency, DisplayName: &name},
		},
	}

	var buf bytes.Buffer
	if err := update.EncodeTo(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodePlayerInfoUpdate(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Actions != update.Actions || len(got.Entries) != 1 {
		t.Fatalf("got %+v", got)
	}
	e := got.Entries[0]
	if e.Listed == nil || *e.Listed != true {
		t.Fatalf("listed mismatch: %+v", e)
	}
	if e.Latency == nil || *e.Latency != 42 {
		t.Fatalf("latency mismatch: %+v", e)
	}
	if e.DisplayName == nil || *e.DisplayName != "displayed" {
		t.Fatalf("display name mismatch: %+v", e)
	}
}

func TestDispatchValidTransitions(t *testing.T) {
	cases := []struct {
		state State
		id    int32
		want  State
	}{
		{Handshaking, IDHandshake, Handshaking},
		{Status, IDStatusRequestOrResponse, Status},
		{Login, IDLoginAcknowledged, Configuration},
		{Configuration, IDAckFinishConfiguration, Play},
		{Play, IDServerboundChatMessage, Play},
	}
	for _, c := range cases {
		got, err := Dispatch(c.state, c.id)
		if err != nil {
			t.Fatalf("Dispatch(%s, 0x%02X): unexpected error %v", c.state, c.id, err)
		}
		if got != c.want {
			t.Fatalf("Dispatch(%s, 0x%02X) = %s, want %s", c.state, c.id, got, c.want)
		}
	}
}

func TestDispatchRejectsUnknownPairs(t *testing.T) {
	cases := []struct {
		state State
		id    int32
	}{
		{Handshaking, IDServerboundChatMessage},
		{Status, IDLoginAcknowledged},
		{Login, IDServerboundChatMessage},
		{Configuration, IDServerboundChatMessage},
		{Play, IDHandshake},
	}
	for _, c := range cases {
		_, err := Dispatch(c.state, c.id)
		if err == nil {
			t.Fatalf("Dispatch(%s, 0x%02X): expected error, got nil", c.state, c.id)
		}
		var perr *ProtocolError
		if !asProtocolError(err, &perr) {
			t.Fatalf("Dispatch(%s, 0x%02X): error is not *ProtocolError: %v", c.state, c.id, err)
		}
	}
}

func asProtocolError(err error, target **ProtocolError) bool {
	pe, ok := err.(*ProtocolError)
	if !ok {
		return false
	}
	*target = pe
	return true
}
