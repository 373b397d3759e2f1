package protocol

import (
	"github.com/google/uuid"

	"github.com/k64z/ferrumgo/codec"
)

// ProfileProperty is one signed or unsigned property entry on a GameProfile
// (e.g. the "textures" skin blob).
type ProfileProperty struct {
	Name      string
	Value     string
	IsSigned  bool
	Signature string // only meaningful when IsSigned
}

func (p ProfileProperty) EncodeTo(w codec.Writer) error {
	if err := codec.EncodeString(w, p.Name); err != nil {
		return err
	}
	if err := codec.EncodeString(w, p.Value); err != nil {
		return err
	}
	if err := codec.EncodeBool(w, p.IsSigned); err != nil {
		return err
	}
	if p.IsSigned {
		return codec.EncodeString(w, p.Signature)
	}
	return nil
}

func decodeProfileProperty(r codec.Reader) (ProfileProperty, error) {
	var p ProfileProperty
	var err error
	if p.Name, err = codec.DecodeString(r, codec.None); err != nil {
		return p, err
	}
	if p.Value, err = codec.DecodeString(r, codec.None); err != nil {
		return p, err
	}
	if p.IsSigned, err = codec.DecodeBool(r); err != nil {
		return p, err
	}
	if p.IsSigned {
		if p.Signature, err = codec.DecodeString(r, codec.None); err != nil {
			return p, err
		}
	}
	return p, nil
}

// GameProfile is the identity committed at login: uuid, username, and
// whatever signed/unsigned properties (skins, capes) the auth source
// attached.
type GameProfile struct {
	UUID       uuid.UUID
	Username   string
	Properties []ProfileProperty
}

func (p GameProfile) EncodeTo(w codec.Writer) error {
	if err := codec.EncodeUUID(w, p.UUID); err != nil {
		return err
	}
	if err := codec.EncodeString(w, p.Username); err != nil {
		return err
	}
	values := make([]codec.Value, len(p.Properties))
	for i, prop := range p.Properties {
		values[i] = prop
	}
	return codec.EncodeSequence(w, values)
}

// DecodeGameProfile reads a GameProfile back off the wire.
func DecodeGameProfile(r codec.Reader) (GameProfile, error) {
	var profile GameProfile
	var err error
	if profile.UUID, err = codec.DecodeUUID(r); err != nil {
		return profile, err
	}
	if profile.Username, err = codec.DecodeString(r, codec.None); err != nil {
		return profile, err
	}
	profile.Properties, err = codec.DecodeSequence(r, 0, decodeProfileProperty)
	return profile, err
}

// Player-action bitmask values for PlayerInfoUpdate, resolved per the
// spec's redesign flag to powers-of-two (the source had inconsistent
// 0x10/0x20 vs 16/32 bit values across call sites).
const (
	ActionAddPlayer         byte = 0x01
	ActionInitializeChat    byte = 0x02
	ActionUpdateGameMode    byte = 0x04
	ActionUpdateListed      byte = 0x08
	ActionUpdateLatency     byte = 0x10
	ActionUpdateDisplayName byte = 0x20
)

// PlayerInfoEntry is one player's row in a PlayerInfoUpdate packet. Only
// the fields relevant to the actions set on the packet are meaningful; the
// others are encoded/decoded only when their action bit is present.
type PlayerInfoEntry struct {
	UUID        uuid.UUID
	Profile     *GameProfile // present iff ActionAddPlayer
	Listed      *bool        // present iff ActionUpdateListed
	Latency     *int32       // present iff ActionUpdateLatency (ms)
	DisplayName *string      // present iff ActionUpdateDisplayName
}

// PlayerInfoUpdate adds or updates player-list rows for every connected
// client. Actions is the OR of the action bits present in every entry.
type PlayerInfoUpdate struct {
	Actions byte
	Entries []PlayerInfoEntry
}

func (p PlayerInfoUpdate) EncodeTo(w codec.Writer) error {
	if err := w.WriteByte(p.Actions); err != nil {
		return err
	}
	if err := codec.EncodeVarInt(w, int32(len(p.Entries))); err != nil {
		return err
	}
	for _, e := range p.Entries {
		if err := codec.EncodeUUID(w, e.UUID); err != nil {
			return err
		}
		if codec.HasFlag(p.Actions, 0) && e.Profile != nil {
			if err := e.Profile.EncodeTo(w); err != nil {
				return err
			}
		}
		if codec.HasFlag(p.Actions, 3) && e.Listed != nil {
			if err := codec.EncodeBool(w, *e.Listed); err != nil {
				return err
			}
		}
		if codec.HasFlag(p.Actions, 4) && e.Latency != nil {
			if err := codec.EncodeVarInt(w, *e.Latency); err != nil {
				return err
			}
		}
		if codec.HasFlag(p.Actions, 5) {
			present := e.DisplayName != nil
			if err := codec.EncodeBool(w, present); err != nil {
				return err
			}
			if present {
				if err := codec.EncodeString(w, *e.DisplayName); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DecodePlayerInfoUpdate reverses EncodeTo.
func DecodePlayerInfoUpdate(r codec.Reader) (PlayerInfoUpdate, error) {
	var p PlayerInfoUpdate
	actions, err := r.ReadByte()
	if err != nil {
		return p, err
	}
	p.Actions = actions

	count, err := codec.DecodeVarInt(r)
	if err != nil {
		return p, err
	}

	p.Entries = make([]PlayerInfoEntry, count)
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.UUID, err = codec.DecodeUUID(r); err != nil {
			return p, err
		}
		if codec.HasFlag(actions, 0) {
			profile, err := DecodeGameProfile(r)
			if err != nil {
				return p, err
			}
			e.Profile = &profile
		}
		if codec.HasFlag(actions, 3) {
			listed, err := codec.DecodeBool(r)
			if err != nil {
				return p, err
			}
			e.Listed = &listed
		}
		if codec.HasFlag(actions, 4) {
			latency, err := codec.DecodeVarInt(r)
			if err != nil {
				return p, err
			}
			e.Latency = &latency
		}
		if codec.HasFlag(actions, 5) {
			name, err := codec.DecodeOptional(r, func(r codec.Reader) (string, error) {
				return codec.DecodeString(r, codec.None)
			})
			if err != nil {
				return p, err
			}
			e.DisplayName = name
		}
	}
	return p, nil
}
