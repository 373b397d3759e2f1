package systems

import (
	"context"

	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/events"
	"github.com/k64z/ferrumgo/netio"
	"github.com/k64z/ferrumgo/protocol"
	"github.com/k64z/ferrumgo/session"
	"github.com/k64z/ferrumgo/text"
)

// RegisterChatRelay wires PlayerAsyncChat straight back out to every live
// connection as a SystemChatMessage, fire-and-forget.
func RegisterChatRelay(bus *event.Bus, writers *session.WriterTable) {
	event.On(bus, events.PlayerAsyncChatName, func(ctx context.Context, ev *events.PlayerAsyncChat) error {
		msg := protocol.SystemChatMessage{Message: text.Plain(ev.Message)}
		for _, w := range writers.All() {
			netio.Send(w, protocol.IDSystemChatMessage, msg)
		}
		return nil
	})
}

// RegisterPlayerListBroadcast announces a newly joined player to every
// other connection's player list.
func RegisterPlayerListBroadcast(bus *event.Bus, writers *session.WriterTable) {
	event.On(bus, events.PlayerJoinGameName, func(ctx context.Context, ev *events.PlayerJoinGame) error {
		listed := true
		update := protocol.PlayerInfoUpdate{
			Actions: protocol.ActionAddPlayer | protocol.ActionUpdateListed,
			Entries: []protocol.PlayerInfoEntry{
				{UUID: ev.Profile.UUID, Profile: &ev.Profile, Listed: &listed},
			},
		}
		for entity, w := range writers.All() {
			if entity == ev.Entity {
				continue
			}
			netio.Send(w, protocol.IDPlayerInfoUpdate, update)
		}
		return nil
	})
}
