// Package session holds the ecs component types that describe one
// connection's progress through the protocol state machine, and the
// per-connection handler loop that drives it.
package session

import (
	"time"

	"github.com/k64z/ferrumgo/protocol"
)

// ConnectionState tracks which of the five protocol states a connection is
// currently in. It is the only component the dispatch table consults.
type ConnectionState struct {
	State protocol.State
}

// CompressionStatus mirrors the StreamWriter's own compression mode so
// other systems (diagnostics, tests) can observe it without reaching into
// the socket layer.
type CompressionStatus struct {
	Enabled   bool
	Threshold int32
}

// PlayerIdentity is added once, alongside Profile, when login succeeds: it
// never exists without a committed Profile on the same entity.
type PlayerIdentity struct {
	Username  string
	ClaimedID protocol.GameProfile // Username/UUID only; Properties unused here
}

// Profile is the committed identity once Login has finished: either the
// velocity-forwarded real profile, or the offline-mode claim verbatim.
type Profile struct {
	Profile protocol.GameProfile
}

// KeepAlive tracks the single outstanding liveness token for a Play-state
// connection and when it was sent, so a sweeper can tell a stale ping from a
// fresh one. The server never disconnects a connection over this — only the
// client's own timeout does.
type KeepAlive struct {
	OutstandingID int64
	SentAt        time.Time
	Awaiting      bool
}
