package session

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/k64z/ferrumgo/codec"
	"github.com/k64z/ferrumgo/config"
	"github.com/k64z/ferrumgo/ecs"
	"github.com/k64z/ferrumgo/event"
	"github.com/k64z/ferrumgo/events"
	"github.com/k64z/ferrumgo/netio"
	"github.com/k64z/ferrumgo/protocol"
	"github.com/k64z/ferrumgo/text"
)

// Deps bundles the shared state every connection handler reads or mutates.
type Deps struct {
	Registry *ecs.Registry
	Bus      *event.Bus
	Config   config.Config
	Logger   *slog.Logger
	Writers  *WriterTable
}

// Handle owns one accepted connection end to end: it builds the entity,
// runs the framer loop until the socket closes or a packet is rejected,
// and tears the entity down on the way out. It returns once the
// connection is fully closed.
func Handle(ctx context.Context, conn net.Conn, deps Deps) {
	entity := ecs.With(ecs.With(deps.Registry.Builder(), ConnectionState{State: protocol.Handshaking}), CompressionStatus{}).Build()

	writer := netio.NewStreamWriter(conn, deps.Logger)
	framer := netio.NewFramer(conn)

	if deps.Writers != nil {
		deps.Writers.put(entity, writer)
	}

	h := &handler{deps: deps, entity: entity, writer: writer, framer: framer}
	reason := h.run(ctx)

	writer.Close()
	go deps.Registry.RemoveAllComponents(entity)
	if deps.Writers != nil {
		deps.Writers.delete(entity)
	}

	if err := event.Trigger(ctx, deps.Bus, events.PlayerDisconnectName, &events.PlayerDisconnect{
		Entity: entity,
		Reason: reason,
	}); err != nil {
		deps.Logger.Warn("disconnect listener failed", "entity", entity, "error", err)
	}
}

type handler struct {
	deps   Deps
	entity ecs.EntityID
	writer *netio.StreamWriter
	framer *netio.Framer
}

func (h *handler) state() protocol.State {
	ref, err := ecs.GetShared[ConnectionState](h.deps.Registry, h.entity)
	if err != nil {
		return protocol.Handshaking
	}
	defer ref.Release()
	return ref.Get().State
}

func (h *handler) setState(s protocol.State) {
	ref, err := ecs.GetExclusive[ConnectionState](h.deps.Registry, h.entity)
	if err != nil {
		return
	}
	defer ref.Release()
	ref.Set(ConnectionState{State: s})
}

func (h *handler) compressionEnabled() bool {
	ref, err := ecs.GetShared[CompressionStatus](h.deps.Registry, h.entity)
	if err != nil {
		return false
	}
	defer ref.Release()
	return ref.Get().Enabled
}

// run drives the read loop until the connection ends, returning the text
// component to report as the disconnect reason.
func (h *handler) run(ctx context.Context) text.Component {
	for {
		skeleton, err := h.framer.Next(h.compressionEnabled())
		if err != nil {
			if errors.Is(err, netio.ErrConnectionClosed) {
				return text.Plain("Disconnected")
			}
			h.deps.Logger.Debug("frame read failed", "entity", h.entity, "error", err)
			return text.Plain("Connection error")
		}

		current := h.state()
		_, err = protocol.Dispatch(current, skeleton.ID)
		if err != nil {
			h.deps.Logger.Debug("protocol error", "entity", h.entity, "state", current, "packet", skeleton.ID)
			reason := text.Plain("Protocol error")
			h.writer.Kick(ctx, current, reason)
			return reason
		}

		if reason, done := h.dispatchPacket(ctx, current, skeleton); done {
			return reason
		}
	}
}

func (h *handler) dispatchPacket(ctx context.Context, state protocol.State, skeleton netio.PacketSkeleton) (text.Component, bool) {
	switch state {
	case protocol.Handshaking:
		return h.handleHandshake(skeleton)
	case protocol.Status:
		return h.handleStatus(skeleton)
	case protocol.Login:
		return h.handleLogin(ctx, skeleton)
	case protocol.Configuration:
		return h.handleConfiguration(skeleton)
	case protocol.Play:
		return h.handlePlay(ctx, skeleton)
	}
	return text.Component{}, false
}

func (h *handler) handleHandshake(skeleton netio.PacketSkeleton) (text.Component, bool) {
	hs, err := protocol.DecodeHandshake(skeleton.Data)
	if err != nil {
		return text.Plain("Malformed handshake"), true
	}
	switch hs.NextState {
	case 1:
		h.setState(protocol.Status)
	case 2:
		h.setState(protocol.Login)
	default:
		return text.Plain("Unknown handshake next state"), true
	}
	return text.Component{}, false
}

func (h *handler) handleStatus(skeleton netio.PacketSkeleton) (text.Component, bool) {
	switch skeleton.ID {
	case protocol.IDStatusRequestOrResponse:
		body := h.deps.Config.MOTD
		resp := protocol.StatusResponse{JSON: statusJSON(body, h.deps.Config.MaxPlayers)}
		netio.Send(h.writer, protocol.IDStatusRequestOrResponse, resp)
	case protocol.IDPingOrPingResponse:
		ping, err := protocol.DecodePing(skeleton.Data)
		if err == nil {
			netio.Send(h.writer, protocol.IDPingOrPingResponse, ping)
		}
		return text.Component{}, true
	}
	return text.Component{}, false
}

func statusJSON(motd string, maxPlayers int32) string {
	return `{"version":{"name":"1.21","protocol":767},"players":{"max":` +
		intToString(maxPlayers) + `,"online":0},"description":{"text":"` + motd + `"}}`
}

func intToString(v int32) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (h *handler) handleLogin(ctx context.Context, skeleton netio.PacketSkeleton) (text.Component, bool) {
	switch skeleton.ID {
	case protocol.IDLoginStart:
		return h.handleLoginStart(ctx, skeleton)
	case protocol.IDLoginPluginResponse:
		return h.handleLoginPluginResponse(ctx, skeleton)
	case protocol.IDLoginAcknowledged:
		h.setState(protocol.Configuration)
	}
	return text.Component{}, false
}

func (h *handler) handleLoginStart(ctx context.Context, skeleton netio.PacketSkeleton) (text.Component, bool) {
	ls, err := protocol.DecodeLoginStart(skeleton.Data)
	if err != nil {
		return text.Plain("Malformed login start"), true
	}

	claimed := protocol.GameProfile{UUID: ls.UUID, Username: ls.Username}

	payload := &events.PlayerStartLogin{Entity: h.entity, Profile: claimed, Writer: h.writer}
	if err := event.Trigger(ctx, h.deps.Bus, events.PlayerStartLoginName, payload); err != nil {
		if errors.Is(err, event.ErrCancelled) {
			// A listener (velocity) is running its own round trip and will
			// complete the login itself.
			return text.Component{}, false
		}
		reason := text.Plain(err.Error())
		h.writer.Kick(ctx, protocol.Login, reason)
		return reason, true
	}

	if err := CompleteLogin(h.deps.Registry, h.writer, h.entity, claimed, h.deps.Config.CompressionThreshold); err != nil {
		reason := text.Plain("Login failed")
		h.writer.Kick(ctx, protocol.Login, reason)
		return reason, true
	}
	return text.Component{}, false
}

func (h *handler) handleLoginPluginResponse(ctx context.Context, skeleton netio.PacketSkeleton) (text.Component, bool) {
	resp, err := protocol.DecodeLoginPluginResponse(skeleton.Data)
	if err != nil {
		return text.Plain("Malformed plugin response"), true
	}

	payload := &events.LoginPluginResponse{Entity: h.entity, Packet: resp, Writer: h.writer}
	if err := event.Trigger(ctx, h.deps.Bus, events.LoginPluginResponseName, payload); err != nil {
		reason := text.Plain(err.Error())
		h.writer.Kick(ctx, protocol.Login, reason)
		return reason, true
	}
	return text.Component{}, false
}

// CompleteLogin commits profile as the connection's identity, switches the
// connection onto compressed framing once compressionThreshold allows it,
// and sends LoginSuccess. Both the default (no-forwarding) login path and
// velocity's listener call this once they've settled on the final profile.
func CompleteLogin(reg *ecs.Registry, writer *netio.StreamWriter, entity ecs.EntityID, profile protocol.GameProfile, compressionThreshold int32) error {
	if err := ecs.AddComponent(reg, entity, Profile{Profile: profile}); err != nil {
		return err
	}
	if err := ecs.AddComponent(reg, entity, PlayerIdentity{Username: profile.Username, ClaimedID: profile}); err != nil {
		return err
	}

	if compressionThreshold >= 0 {
		if err := netio.Send(writer, protocol.IDSetCompression, protocol.SetCompression{Threshold: compressionThreshold}); err != nil {
			return err
		}
		writer.SetCompression(compressionThreshold)
		if ref, err := ecs.GetExclusive[CompressionStatus](reg, entity); err == nil {
			ref.Set(CompressionStatus{Enabled: true, Threshold: compressionThreshold})
			ref.Release()
		}
	}

	return netio.Send(writer, protocol.IDLoginSuccess, protocol.LoginSuccess{Profile: profile})
}

func (h *handler) handleConfiguration(skeleton netio.PacketSkeleton) (text.Component, bool) {
	switch skeleton.ID {
	case protocol.IDClientInformation:
		// Client locale/view-distance hints; nothing downstream consumes
		// them yet.
	case protocol.IDServerboundPluginMessage:
		protocol.DecodePluginMessage(skeleton.Data)
	case protocol.IDServerboundKnownPacks:
		netio.Send(h.writer, protocol.IDClientboundKnownPacks, protocol.KnownPacks{})
		netio.Send(h.writer, protocol.IDFinishConfiguration, finishConfiguration{})
	case protocol.IDAckFinishConfiguration:
		h.setState(protocol.Play)
		h.enterPlay()
	}
	return text.Component{}, false
}

type finishConfiguration struct{}

func (finishConfiguration) EncodeTo(w codec.Writer) error { return nil }

func (h *handler) enterPlay() {
	ref, err := ecs.GetShared[Profile](h.deps.Registry, h.entity)
	var profile protocol.GameProfile
	if err == nil {
		profile = ref.Get().Profile
		ref.Release()
	}

	netio.Send(h.writer, protocol.IDLoginPlay, protocol.LoginPlay{
		EntityID:            int32(h.entity),
		DimensionNames:      []string{"minecraft:overworld"},
		MaxPlayers:          h.deps.Config.MaxPlayers,
		ViewDistance:        h.deps.Config.ViewDistance,
		SimulationDistance:  h.deps.Config.ViewDistance,
		DimensionType:       "minecraft:overworld",
		DimensionName:       "minecraft:overworld",
		EnforcesSecureChat:  false,
	})
	netio.Send(h.writer, protocol.IDSetDefaultSpawnPosition, protocol.SetDefaultSpawnPosition{
		Position: codec.Position{X: 0, Y: 64, Z: 0},
	})
	netio.Send(h.writer, protocol.IDSyncPlayerPosition, protocol.SyncPlayerPosition{
		X: 0, Y: 64, Z: 0, TeleportID: 1,
	})
	netio.Send(h.writer, protocol.IDGameEvent, protocol.GameEvent{Event: protocol.EventWaitForChunks})

	if err == nil {
		listed := true
		netio.Send(h.writer, protocol.IDPlayerInfoUpdate, protocol.PlayerInfoUpdate{
			Actions: protocol.ActionAddPlayer | protocol.ActionUpdateListed,
			Entries: []protocol.PlayerInfoEntry{
				{UUID: profile.UUID, Profile: &profile, Listed: &listed},
			},
		})
	}

	ecs.AddComponent(h.deps.Registry, h.entity, KeepAlive{})
	if err := SendKeepAlive(h.writer, h.deps.Registry, h.entity, time.Now()); err != nil {
		h.deps.Logger.Debug("keep-alive send failed", "entity", h.entity, "error", err)
	}

	event.Trigger(context.Background(), h.deps.Bus, events.PlayerJoinGameName, &events.PlayerJoinGame{
		Entity: h.entity, Profile: profile,
	})
}

func (h *handler) handlePlay(ctx context.Context, skeleton netio.PacketSkeleton) (text.Component, bool) {
	switch skeleton.ID {
	case protocol.IDServerboundChatMessage:
		chat, err := protocol.DecodeServerboundChatMessage(skeleton.Data)
		if err == nil {
			event.Trigger(ctx, h.deps.Bus, events.PlayerAsyncChatName, &events.PlayerAsyncChat{
				Entity: h.entity, Message: chat.Message,
			})
		}
	case protocol.IDServerboundKeepAlive:
		ka, err := protocol.DecodeServerboundKeepAlive(skeleton.Data)
		if err == nil {
			h.acknowledgeKeepAlive(ka.ID)
		}
	case protocol.IDServerboundSetPlayerPos:
		// Movement is accepted but not simulated; position tracking beyond
		// the handshake is out of scope.
		protocol.DecodeServerboundSetPlayerPosition(skeleton.Data)
	}
	return text.Component{}, false
}

func (h *handler) acknowledgeKeepAlive(id int64) {
	ref, err := ecs.GetExclusive[KeepAlive](h.deps.Registry, h.entity)
	if err != nil {
		return
	}
	defer ref.Release()
	ka := ref.Get()
	if ka.OutstandingID == id {
		ka.Awaiting = false
		ref.Set(ka)
	}
}

// SendKeepAlive issues a new liveness token, used by the keep-alive sweeper.
func SendKeepAlive(writer *netio.StreamWriter, reg *ecs.Registry, entity ecs.EntityID, now time.Time) error {
	ref, err := ecs.GetExclusive[KeepAlive](reg, entity)
	if err != nil {
		return err
	}
	id := now.UnixNano()
	ref.Set(KeepAlive{OutstandingID: id, SentAt: now, Awaiting: true})
	ref.Release()
	return netio.Send(writer, protocol.IDClientboundKeepAlive, protocol.ClientboundKeepAlive{ID: id})
}
