// Package velocity implements the velocity modern forwarding protocol: a
// server that trusts a velocity proxy defers LoginSuccess until the proxy
// answers a plugin-channel challenge with the player's real profile, HMAC
// signed with a secret shared out of band.
package velocity

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/k64z/ferrumgo/codec"
	"github.com/k64z/ferrumgo/config"
	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/events"
	"github.com/k64z/ferrumgo/netio"
	"github.com/k64z/ferrumgo/protocol"
	"github.com/k64z/ferrumgo/session"
)

const forwardingChannel = "velocity:player_info"
const supportedVersion int32 = 1

// messageID is the per-connection component recording the LoginPluginRequest
// id this package sent, so the matching response can be told apart from one
// meant for a different listener sharing the channel.
type messageID struct {
	ID int32
}

// Register wires the two listeners that implement forwarding onto bus. reg
// is needed to stash and retrieve the per-connection messageID component.
// compressionThreshold is forwarded to session.CompleteLogin once the proxy's
// forwarded profile is verified, exactly as the default login path does.
func Register(bus *event.Bus, reg *ecs.Registry, cfg config.VelocityConfig, compressionThreshold int32) {
	event.On(bus, events.PlayerStartLoginName, func(ctx context.Context, ev *events.PlayerStartLogin) error {
		if !cfg.Enabled {
			return nil
		}

		id := randomMessageID()
		if err := ecs.AddComponent(reg, ev.Entity, messageID{ID: id}); err != nil {
			return err
		}

		req := protocol.LoginPluginRequest{MessageID: id, Channel: forwardingChannel}
		if err := netio.Send(ev.Writer, protocol.IDLoginPluginRequest, req); err != nil {
			return err
		}

		// Session must not also complete the login; this listener finishes
		// it once the proxy responds.
		return event.ErrCancelled
	})

	event.On(bus, events.LoginPluginResponseName, func(ctx context.Context, ev *events.LoginPluginResponse) error {
		ref, err := ecs.GetShared[messageID](reg, ev.Entity)
		if err != nil {
			// Not velocity's request; ignore.
			return nil
		}
		expected := ref.Get().ID
		ref.Release()
		if ev.Packet.MessageID != expected {
			return nil
		}
		ecs.RemoveComponent[messageID](reg, ev.Entity)

		profile, err := verify(cfg, ev.Packet)
		if err != nil {
			return err
		}

		return session.CompleteLogin(reg, ev.Writer, ev.Entity, profile, compressionThreshold)
	})
}

func randomMessageID() int32 {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	v := binary.BigEndian.Uint32(buf[:])
	return int32(v &^ (1 << 31)) // keep it a non-negative VarInt-friendly value
}

var errMissingForwarding = errors.New("velocity: proxy did not send forwarding information")
var errUnsupportedVersion = errors.New("velocity: unsupported forwarding version")
var errBadSignature = errors.New("velocity: invalid proxy signature")

const signatureLength = sha256.Size

func verify(cfg config.VelocityConfig, packet protocol.LoginPluginResponse) (protocol.GameProfile, error) {
	if !packet.Success || len(packet.Data) <= signatureLength {
		return protocol.GameProfile{}, kick(errMissingForwarding, "The velocity proxy did not send forwarding information!")
	}

	signature := packet.Data[:signatureLength]
	signed := packet.Data[signatureLength:]

	mac := hmac.New(sha256.New, []byte(cfg.Secret))
	mac.Write(signed)
	if !hmac.Equal(mac.Sum(nil), signature) {
		return protocol.GameProfile{}, kick(errBadSignature, "Invalid proxy response!")
	}

	r := bytes.NewReader(signed)
	version, err := codec.DecodeVarInt(r)
	if err != nil {
		return protocol.GameProfile{}, err
	}
	if version != supportedVersion {
		return protocol.GameProfile{}, kick(errUnsupportedVersion, "This velocity modern forwarding version is not supported!")
	}
	if _, err := codec.DecodeString(r, codec.None); err != nil { // client address, unused
		return protocol.GameProfile{}, err
	}

	return protocol.DecodeGameProfile(r)
}

// kickErr carries the text shown to the player alongside the wrapped
// sentinel used for programmatic matching.
type kickErr struct {
	reason string
	cause  error
}

func (k *kickErr) Error() string { return k.reason }
func (k *kickErr) Unwrap() error { return k.cause }

func kick(cause error, reason string) error {
	return &kickErr{reason: reason, cause: cause}
}
