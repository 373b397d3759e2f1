package protocol

import (
	"bytes"
	"io"

	"github.com/google/uuid"

	"github.com/k64z/ferrumgo/codec"
	"github.com/k64z/ferrumgo/text"
)

// Handshake is the first packet on any connection; NextState selects the
// branch (Status=1 or Login=2) the connection moves into.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func DecodeHandshake(r codec.Reader) (Handshake, error) {
	var h Handshake
	var err error
	if h.ProtocolVersion, err = codec.DecodeVarInt(r); err != nil {
		return h, err
	}
	if h.ServerAddress, err = codec.DecodeString(r, codec.None); err != nil {
		return h, err
	}
	if h.ServerPort, err = codec.DecodeUint16(r); err != nil {
		return h, err
	}
	h.NextState, err = codec.DecodeVarInt(r)
	return h, err
}

// StatusResponse carries the server-list JSON payload verbatim.
type StatusResponse struct {
	JSON string
}

func (p StatusResponse) EncodeTo(w codec.Writer) error {
	return codec.EncodeString(w, p.JSON)
}

// Ping/Pong exchange an opaque payload the client uses to measure latency.
type Ping struct {
	Payload int64
}

func DecodePing(r codec.Reader) (Ping, error) {
	v, err := codec.DecodeInt64(r)
	return Ping{Payload: v}, err
}

func (p Ping) EncodeTo(w codec.Writer) error {
	return codec.EncodeInt64(w, p.Payload)
}

// LoginStart is the client's identity claim: the username it intends to
// play under and, pre-1.20.2, a client-chosen uuid hint.
type LoginStart struct {
	Username string
	UUID     uuid.UUID
}

func DecodeLoginStart(r codec.Reader) (LoginStart, error) {
	var l LoginStart
	var err error
	if l.Username, err = codec.DecodeString(r, codec.None); err != nil {
		return l, err
	}
	l.UUID, err = codec.DecodeUUID(r)
	return l, err
}

// LoginSuccess commits the server's view of the player's identity; the
// client must echo LoginAcknowledged before the Configuration state opens.
type LoginSuccess struct {
	Profile GameProfile
}

func (p LoginSuccess) EncodeTo(w codec.Writer) error {
	return p.Profile.EncodeTo(w)
}

// SetCompression switches the connection onto zlib framing above Threshold
// bytes; every frame after this one, both directions, uses the new mode.
type SetCompression struct {
	Threshold int32
}

func (p SetCompression) EncodeTo(w codec.Writer) error {
	return codec.EncodeVarInt(w, p.Threshold)
}

// LoginPluginRequest/LoginPluginResponse carry a vendor channel exchange
// during Login; velocity forwarding rides this pair.
type LoginPluginRequest struct {
	MessageID int32
	Channel   string
	Data      []byte
}

func (p LoginPluginRequest) EncodeTo(w codec.Writer) error {
	if err := codec.EncodeVarInt(w, p.MessageID); err != nil {
		return err
	}
	if err := codec.EncodeString(w, p.Channel); err != nil {
		return err
	}
	_, err := w.Write(p.Data)
	return err
}

type LoginPluginResponse struct {
	MessageID int32
	Success   bool
	Data      []byte
}

// DecodeLoginPluginResponse reads a LoginPluginResponse from r, a reader
// positioned at the start of the packet body. When Success is set, any bytes
// left in r once MessageID and Success have been read become Data verbatim;
// otherwise Data stays nil.
func DecodeLoginPluginResponse(r *bytes.Reader) (LoginPluginResponse, error) {
	var p LoginPluginResponse
	var err error
	if p.MessageID, err = codec.DecodeVarInt(r); err != nil {
		return p, err
	}
	if p.Success, err = codec.DecodeBool(r); err != nil {
		return p, err
	}
	if p.Success && r.Len() > 0 {
		p.Data = make([]byte, r.Len())
		if _, err := io.ReadFull(r, p.Data); err != nil {
			return p, err
		}
	}
	return p, nil
}

// PluginMessage is the shared shape for ServerboundPluginMessage,
// ConfigurationPluginMessage and PlayPluginMessage; callers pick the wire id.
type PluginMessage struct {
	Channel string
	Data    []byte
}

func (p PluginMessage) EncodeTo(w codec.Writer) error {
	if err := codec.EncodeString(w, p.Channel); err != nil {
		return err
	}
	_, err := w.Write(p.Data)
	return err
}

// DecodePluginMessage reads a PluginMessage from r; whatever remains after
// the channel name is the message body, whole.
func DecodePluginMessage(r *bytes.Reader) (PluginMessage, error) {
	var p PluginMessage
	var err error
	if p.Channel, err = codec.DecodeString(r, codec.None); err != nil {
		return p, err
	}
	p.Data = make([]byte, r.Len())
	if r.Len() > 0 {
		if _, err := io.ReadFull(r, p.Data); err != nil {
			return p, err
		}
	}
	return p, nil
}

// KnownPack identifies one resource/data pack both sides already agree on,
// letting the server skip sending registry data the client already has.
type KnownPack struct {
	Namespace string
	ID        string
	Version   string
}

func (p KnownPack) EncodeTo(w codec.Writer) error {
	if err := codec.EncodeString(w, p.Namespace); err != nil {
		return err
	}
	if err := codec.EncodeString(w, p.ID); err != nil {
		return err
	}
	return codec.EncodeString(w, p.Version)
}

func decodeKnownPack(r codec.Reader) (KnownPack, error) {
	var p KnownPack
	var err error
	if p.Namespace, err = codec.DecodeString(r, codec.None); err != nil {
		return p, err
	}
	if p.ID, err = codec.DecodeString(r, codec.None); err != nil {
		return p, err
	}
	p.Version, err = codec.DecodeString(r, codec.None)
	return p, err
}

type KnownPacks struct {
	Packs []KnownPack
}

func (p KnownPacks) EncodeTo(w codec.Writer) error {
	values := make([]codec.Value, len(p.Packs))
	for i, pack := range p.Packs {
		values[i] = pack
	}
	return codec.EncodeSequence(w, values)
}

func DecodeKnownPacks(r codec.Reader) (KnownPacks, error) {
	packs, err := codec.DecodeSequence(r, 0, decodeKnownPack)
	return KnownPacks{Packs: packs}, err
}

// LoginPlay is the large state-handoff packet opening the Play state.
type LoginPlay struct {
	EntityID            int32
	IsHardcore          bool
	DimensionNames       []string
	MaxPlayers          int32
	ViewDistance        int32
	SimulationDistance  int32
	ReducedDebugInfo    bool
	EnableRespawnScreen bool
	DimensionType       string
	DimensionName       string
	HashedSeed          int64
	GameMode            byte
	PreviousGameMode    int8
	IsDebug             bool
	IsFlat              bool
	PortalCooldown      int32
	EnforcesSecureChat  bool
}

func (p LoginPlay) EncodeTo(w codec.Writer) error {
	if err := codec.EncodeInt64(w, int64(p.EntityID)); err != nil {
		return err
	}
	if err := codec.EncodeBool(w, p.IsHardcore); err != nil {
		return err
	}
	names := make([]codec.Value, len(p.DimensionNames))
	for i, n := range p.DimensionNames {
		names[i] = stringValue(n)
	}
	if err := codec.EncodeSequence(w, names); err != nil {
		return err
	}
	if err := codec.EncodeVarInt(w, p.MaxPlayers); err != nil {
		return err
	}
	if err := codec.EncodeVarInt(w, p.ViewDistance); err != nil {
		return err
	}
	if err := codec.EncodeVarInt(w, p.SimulationDistance); err != nil {
		return err
	}
	if err := codec.EncodeBool(w, p.ReducedDebugInfo); err != nil {
		return err
	}
	if err := codec.EncodeBool(w, p.EnableRespawnScreen); err != nil {
		return err
	}
	if err := codec.EncodeString(w, p.DimensionType); err != nil {
		return err
	}
	if err := codec.EncodeString(w, p.DimensionName); err != nil {
		return err
	}
	if err := codec.EncodeInt64(w, p.HashedSeed); err != nil {
		return err
	}
	if err := w.WriteByte(p.GameMode); err != nil {
		return err
	}
	if err := w.WriteByte(byte(p.PreviousGameMode)); err != nil {
		return err
	}
	if err := codec.EncodeBool(w, p.IsDebug); err != nil {
		return err
	}
	if err := codec.EncodeBool(w, p.IsFlat); err != nil {
		return err
	}
	if err := codec.EncodeVarInt(w, p.PortalCooldown); err != nil {
		return err
	}
	return codec.EncodeBool(w, p.EnforcesSecureChat)
}

type stringValue string

func (s stringValue) EncodeTo(w codec.Writer) error {
	return codec.EncodeString(w, string(s))
}

// SetDefaultSpawnPosition anchors the client's compass/world spawn.
type SetDefaultSpawnPosition struct {
	Position codec.Position
	Angle    float32
}

func (p SetDefaultSpawnPosition) EncodeTo(w codec.Writer) error {
	if err := codec.EncodePosition(w, p.Position); err != nil {
		return err
	}
	return codec.EncodeFloat32(w, p.Angle)
}

// SyncPlayerPosition teleports the client to an authoritative position; the
// client must echo TeleportID back via ConfirmTeleportation (not modeled:
// the spec's Play loop treats this as fire-and-forget camera placement).
type SyncPlayerPosition struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      byte
	TeleportID int32
}

func (p SyncPlayerPosition) EncodeTo(w codec.Writer) error {
	if err := codec.EncodeFloat64(w, p.X); err != nil {
		return err
	}
	if err := codec.EncodeFloat64(w, p.Y); err != nil {
		return err
	}
	if err := codec.EncodeFloat64(w, p.Z); err != nil {
		return err
	}
	if err := codec.EncodeFloat32(w, p.Yaw); err != nil {
		return err
	}
	if err := codec.EncodeFloat32(w, p.Pitch); err != nil {
		return err
	}
	if err := w.WriteByte(p.Flags); err != nil {
		return err
	}
	return codec.EncodeVarInt(w, p.TeleportID)
}

// GameEvent signals a Play-state lifecycle event to the client; EventWaitForChunks
// is the only one this server emits (unblocks the client's loading screen).
const EventWaitForChunks byte = 13

type GameEvent struct {
	Event byte
	Value float32
}

func (p GameEvent) EncodeTo(w codec.Writer) error {
	if err := w.WriteByte(p.Event); err != nil {
		return err
	}
	return codec.EncodeFloat32(w, p.Value)
}

// ClientboundKeepAlive/ServerboundKeepAlive carry a liveness token the
// client must echo back within the configured timeout.
type ClientboundKeepAlive struct {
	ID int64
}

func (p ClientboundKeepAlive) EncodeTo(w codec.Writer) error {
	return codec.EncodeInt64(w, p.ID)
}

type ServerboundKeepAlive struct {
	ID int64
}

func DecodeServerboundKeepAlive(r codec.Reader) (ServerboundKeepAlive, error) {
	v, err := codec.DecodeInt64(r)
	return ServerboundKeepAlive{ID: v}, err
}

// ServerboundChatMessage is a plain chat submission. Signed-chat fields
// (salt, signature, acknowledgements) are out of scope: forwarding chat as
// plain text doesn't need them and the server never verifies a signature.
type ServerboundChatMessage struct {
	Message   string
	Timestamp int64
}

func DecodeServerboundChatMessage(r codec.Reader) (ServerboundChatMessage, error) {
	var p ServerboundChatMessage
	var err error
	if p.Message, err = codec.DecodeString(r, codec.None); err != nil {
		return p, err
	}
	p.Timestamp, err = codec.DecodeInt64(r)
	return p, err
}

// ServerboundSetPlayerPosition reports the client's latest movement; this
// server only needs it to keep the entity's recorded position current.
type ServerboundSetPlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

func DecodeServerboundSetPlayerPosition(r codec.Reader) (ServerboundSetPlayerPosition, error) {
	var p ServerboundSetPlayerPosition
	var err error
	if p.X, err = codec.DecodeFloat64(r); err != nil {
		return p, err
	}
	if p.Y, err = codec.DecodeFloat64(r); err != nil {
		return p, err
	}
	if p.Z, err = codec.DecodeFloat64(r); err != nil {
		return p, err
	}
	p.OnGround, err = codec.DecodeBool(r)
	return p, err
}

// SystemChatMessage delivers server-originated chat (whitelist kicks,
// broadcasts) as a styled component rather than a raw player message.
type SystemChatMessage struct {
	Message Component
	Overlay bool
}

func (p SystemChatMessage) EncodeTo(w codec.Writer) error {
	if err := encodeComponent(w, p.Message); err != nil {
		return err
	}
	return codec.EncodeBool(w, p.Overlay)
}

// LoginDisconnect carries the kick reason shown during Login, as a single
// JSON component (the only form the Login state ever sends).
type LoginDisconnect struct {
	Reason Component
}

func (p LoginDisconnect) EncodeTo(w codec.Writer) error {
	return encodeComponent(w, p.Reason)
}

// PlayDisconnect carries the kick reason shown once in the Play state.
// Vanilla encodes this as NBT; this server sends the same JSON form it uses
// everywhere else, which every client accepts for plain chat components.
type PlayDisconnect struct {
	Reason Component
}

func (p PlayDisconnect) EncodeTo(w codec.Writer) error {
	return encodeComponent(w, p.Reason)
}

// Component is a type alias so packet definitions don't need to import the
// text package's name directly alongside its own Component type.
type Component = text.Component

func encodeComponent(w codec.Writer, c Component) error {
	blob, err := text.JSON(c)
	if err != nil {
		return err
	}
	return codec.EncodeString(w, string(blob))
}
