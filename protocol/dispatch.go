package protocol

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ProtocolError reports a packet id that has no entry in the transition
// table for the state it arrived in.
type ProtocolError struct {
	State    State
	PacketID int32
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: packet 0x%02X is not valid in state %s", e.PacketID, e.State)
}

// ErrUnknownTransition is the sentinel every ProtocolError wraps, so callers
// can test with errors.Is without caring about the offending id.
var ErrUnknownTransition = errors.New("protocol: unknown state transition")

func (e *ProtocolError) Unwrap() error { return ErrUnknownTransition }

// transitionTable enumerates every (state, serverbound packetId) pair this
// server accepts and the state it leaves the connection in. Handshaking's
// single entry always resolves to Handshaking here; the caller advances to
// Status or Login by inspecting the decoded Handshake.NextState field,
// since the wire id alone doesn't carry that information.
var transitionTable = map[State]map[int32]State{
	Handshaking: {
		IDHandshake: Handshaking,
	},
	Status: {
		IDStatusRequestOrResponse: Status,
		IDPingOrPingResponse:      Status,
	},
	Login: {
		IDLoginStart:          Login,
		IDLoginPluginResponse: Login,
		IDLoginAcknowledged:   Configuration,
	},
	Configuration: {
		IDClientInformation:        Configuration,
		IDServerboundPluginMessage: Configuration,
		IDServerboundKnownPacks:    Configuration,
		IDAckFinishConfiguration:   Play,
	},
	Play: {
		IDServerboundChatMessage:  Play,
		IDServerboundSetPlayerPos: Play,
		IDServerboundKeepAlive:    Play,
	},
}

// Dispatch validates that packetId is legal in state, returning the state
// the connection transitions to. Any (state, packetId) pair outside the
// table above yields a *ProtocolError and leaves state mutation to the
// caller, which must not apply one.
func Dispatch(state State, packetId int32) (State, error) {
	entries, ok := transitionTable[state]
	if !ok {
		return state, &ProtocolError{State: state, PacketID: packetId}
	}
	next, ok := entries[packetId]
	if !ok {
		return state, &ProtocolError{State: state, PacketID: packetId}
	}
	return next, nil
}
