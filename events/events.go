// Package events declares the payload types carried over the event bus
// between connection handling and the systems that react to it (velocity
// forwarding, the whitelist, chat relay).
package events

import (
	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/netio"
	"github.com/k64z/ferrumgo/protocol"
	"github.com/k64z/ferrumgo/text"
)

// Names used with event.On/event.Trigger for each payload type below.
const (
	PlayerStartLoginName    = "player.start_login"
	LoginPluginResponseName = "player.login_plugin_response"
	PlayerJoinGameName      = "player.join_game"
	PlayerAsyncChatName     = "player.async_chat"
	PlayerDisconnectName    = "player.disconnect"
)

// PlayerStartLogin fires once LoginStart has been read, before
// LoginSuccess goes out. A listener that wants to defer login success
// (velocity forwarding) sends its own LoginPluginRequest through Writer,
// records whatever state it needs on the entity, and returns
// event.ErrCancelled so session does not also complete the login. Any
// other listener error is treated as a Login-state kick with that error's
// message as the disconnect reason.
type PlayerStartLogin struct {
	Entity  ecs.EntityID
	Profile protocol.GameProfile
	Writer  *netio.StreamWriter
}

// LoginPluginResponse fires when the client answers a LoginPluginRequest
// this server sent; velocity forwarding is the only current listener. A
// listener that completes the login itself (e.g. via session.CompleteLogin)
// should return nil; a listener that wants the connection kicked returns
// the reason as its error.
type LoginPluginResponse struct {
	Entity  ecs.EntityID
	Packet  protocol.LoginPluginResponse
	Writer  *netio.StreamWriter
}

// PlayerJoinGame fires once LoginPlay has gone out and the connection is
// live in the Play state.
type PlayerJoinGame struct {
	Entity  ecs.EntityID
	Profile protocol.GameProfile
}

// PlayerAsyncChat fires for every ServerboundChatMessage. The name reflects
// that chat is relayed without waiting for any acknowledgement chain.
type PlayerAsyncChat struct {
	Entity  ecs.EntityID
	Message string
}

// PlayerDisconnect fires once, after the connection's socket has closed,
// with whatever reason (client-initiated, kicked, timed out) applies.
type PlayerDisconnect struct {
	Entity ecs.EntityID
	Reason text.Component
}
