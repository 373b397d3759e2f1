package protocol

// Packet ids, organized by state and direction. The ids explicitly named in
// the wire protocol contract are fixed at those values; the remainder are
// those prescribed by the targeted protocol version (Java Edition 1.21,
// protocol 767) and are otherwise ordinary implementation detail the codec
// never branches on.

// Handshaking, serverbound.
const (
	IDHandshake int32 = 0x00
)

// Status, both directions share ids per the spec's "no branch on direction"
// framing (StatusRequest/StatusResponse and Ping/PingResponse are 1:1).
const (
	IDStatusRequestOrResponse int32 = 0x00
	IDPingOrPingResponse      int32 = 0x01
)

// Login, serverbound.
const (
	IDLoginStart           int32 = 0x00
	IDLoginPluginResponse  int32 = 0x02
	IDLoginAcknowledged    int32 = 0x03
)

// Login, clientbound.
const (
	IDLoginDisconnect    int32 = 0x00 // fixed by the wire contract
	IDLoginSuccess       int32 = 0x02 // fixed by the wire contract
	IDSetCompression     int32 = 0x03
	IDLoginPluginRequest int32 = 0x04
)

// Configuration, serverbound.
const (
	IDClientInformation          int32 = 0x00
	IDServerboundPluginMessage   int32 = 0x02
	IDAckFinishConfiguration     int32 = 0x03
	IDServerboundKnownPacks      int32 = 0x07
)

// Configuration, clientbound.
const (
	IDConfigurationPluginMessage int32 = 0x01 // fixed by the wire contract
	IDFinishConfiguration        int32 = 0x03
	IDClientboundKnownPacks      int32 = 0x0E
	IDRegistryData               int32 = 0x07
)

// Play, serverbound.
const (
	IDServerboundChatMessage  int32 = 0x06 // fixed by the wire contract
	IDServerboundKeepAlive    int32 = 0x18
	IDServerboundSetPlayerPos int32 = 0x1A
)

// Play, clientbound.
const (
	IDLoginPlay                 int32 = 0x2B
	IDSetDefaultSpawnPosition   int32 = 0x5A
	IDSyncPlayerPosition        int32 = 0x40
	IDGameEvent                 int32 = 0x22
	IDPlayPluginMessage         int32 = 0x19 // fixed by the wire contract
	IDPlayerInfoUpdate          int32 = 0x3E // fixed by the wire contract
	IDClientboundKeepAlive      int32 = 0x26
	IDSystemChatMessage         int32 = 0x6C // fixed by the wire contract
	IDPlayDisconnect            int32 = 0x1D // fixed by the wire contract
)

// The connection's KeepAlive component tracks the single outstanding id;
// a ServerboundKeepAlive whose ID doesn't match it is ignored rather than
// treated as a protocol error, since a stale ack can race a fresh ping.
