package velocity

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"log/slog"
	"net"
	"testing"

	"github.com/google/uuid"

	"github.com/k64z/ferrumgo/codec"
	"github.com/k64z/ferrumgo/config"
	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/events"
	"github.com/k64z/ferrumgo/netio"
	"github.com/k64z/ferrumgo/protocol"
)

const testSecret = "shared-secret"

func signedResponse(t *testing.T, secret string, profile protocol.GameProfile) protocol.LoginPluginResponse {
	t.Helper()
	var signed bytes.Buffer
	if err := codec.EncodeVarInt(&signed, supportedVersion); err != nil {
		t.Fatalf("encode version: %v", err)
	}
	if err := codec.EncodeString(&signed, "127.0.0.1"); err != nil {
		t.Fatalf("encode address: %v", err)
	}
	if err := profile.EncodeTo(&signed); err != nil {
		t.Fatalf("encode profile: %v", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(signed.Bytes())

	data := append(mac.Sum(nil), signed.Bytes()...)
	return protocol.LoginPluginResponse{Success: true, Data: data}
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	want := protocol.GameProfile{UUID: uuid.New(), Username: "steve"}
	resp := signedResponse(t, testSecret, want)

	got, err := verify(config.VelocityConfig{Secret: testSecret}, resp)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UUID != want.UUID || got.Username != want.Username {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	resp := signedResponse(t, testSecret, protocol.GameProfile{UUID: uuid.New(), Username: "steve"})

	if _, err := verify(config.VelocityConfig{Secret: "wrong-secret"}, resp); err == nil {
		t.Errorf("expected an error for a mismatched secret")
	}
}

func TestVerifyRejectsMissingData(t *testing.T) {
	resp := protocol.LoginPluginResponse{Success: false}
	if _, err := verify(config.VelocityConfig{Secret: testSecret}, resp); err == nil {
		t.Errorf("expected an error when the proxy sent no forwarding data")
	}
}

func TestRegisterCancelsDefaultLoginPath(t *testing.T) {
	bus := event.New()
	reg := ecs.New()
	Register(bus, reg, config.VelocityConfig{Enabled: true, Secret: testSecret}, 256)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := clientConn.Read(buf); err != nil {
				return
			}
		}
	}()
	writer := netio.NewStreamWriter(serverConn, slog.Default())

	entity := reg.Builder().Build()
	err := event.Trigger(context.Background(), bus, events.PlayerStartLoginName, &events.PlayerStartLogin{
		Entity: entity,
		Writer: writer,
	})
	if err != event.ErrCancelled {
		t.Fatalf("got %v, want ErrCancelled", err)
	}

	if _, err := ecs.GetShared[messageID](reg, entity); err != nil {
		t.Errorf("expected a stored messageID component, got %v", err)
	}
}

func TestRegisterNoopWhenDisabled(t *testing.T) {
	bus := event.New()
	reg := ecs.New()
	Register(bus, reg, config.VelocityConfig{Enabled: false}, 256)

	entity := reg.Builder().Build()
	err := event.Trigger(context.Background(), bus, events.PlayerStartLoginName, &events.PlayerStartLogin{
		Entity: entity,
	})
	if err != nil {
		t.Errorf("got %v, want nil when velocity disabled", err)
	}
}
