// Package config loads the server's startup configuration from a TOML
// file. The result is immutable for the life of the process; nothing
// reloads it.
package config

import (
	"net"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Config is the full recognized option set. Every field has a sensible
// zero-ish default applied by Load before the file is decoded over it.
type Config struct {
	ListenAddr   string `toml:"listen_addr"`
	MaxPlayers   int32  `toml:"max_players"`
	MOTD         string `toml:"motd"`
	ViewDistance int32  `toml:"view_distance"`

	CompressionThreshold int32  `toml:"compression_threshold"`
	NetworkTickRate      uint32 `toml:"network_tick_rate"`
	World                string `toml:"world"`

	KeepAliveIntervalSeconds int `toml:"keep_alive_interval_seconds"`
	KeepAliveTimeoutSeconds  int `toml:"keep_alive_timeout_seconds"`

	Velocity  VelocityConfig  `toml:"velocity"`
	Whitelist WhitelistConfig `toml:"whitelist"`
	LAN       LANConfig       `toml:"lan_broadcast"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Database  DatabaseConfig  `toml:"database"`
}

// DatabaseConfig is recognized but otherwise inert: world persistence is out
// of scope for this server core, so these options are parsed and validated
// for forward-compatibility with config files that already set them, and
// nothing reads them yet.
type DatabaseConfig struct {
	CacheSize   uint32 `toml:"cache_size"`
	Compression string `toml:"compression"` // "none", "fast", or "best"
}

// VelocityConfig configures acceptance of velocity's player-info-forwarding
// plugin channel. Secret is the HMAC key shared with the proxy's
// forwarding.secret file.
type VelocityConfig struct {
	Enabled bool   `toml:"enabled"`
	Secret  string `toml:"secret"`
}

// WhitelistConfig configures whether unlisted players are rejected at
// login and where the listed-uuid file lives.
type WhitelistConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LANConfig configures the periodic LAN-discovery broadcast.
type LANConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

// MetricsConfig configures the diagnostics HTTP listener exposing the
// online-player-count gauge.
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

func defaults() Config {
	return Config{
		ListenAddr:               ":25565",
		MaxPlayers:               20,
		MOTD:                     "A Minecraft Server",
		ViewDistance:             10,
		CompressionThreshold:     256,
		NetworkTickRate:          20,
		World:                    "world",
		KeepAliveIntervalSeconds: 15,
		KeepAliveTimeoutSeconds:  30,
		LAN: LANConfig{
			IntervalSeconds: 5,
		},
		Metrics: MetricsConfig{
			ListenAddr: ":9100",
		},
		Database: DatabaseConfig{
			CacheSize:   1024,
			Compression: "fast",
		},
	}
}

// Load reads and decodes path over the defaults, validating the few fields
// whose zero value would otherwise silently misbehave.
func Load(path string) (Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: decode %s", path)
	}
	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		return Config{}, errors.Wrapf(err, "config: invalid listen_addr %q", cfg.ListenAddr)
	}
	if cfg.Velocity.Enabled && cfg.Velocity.Secret == "" {
		return Config{}, errors.New("config: velocity.enabled requires velocity.secret")
	}
	if cfg.Whitelist.Enabled && cfg.Whitelist.Path == "" {
		return Config{}, errors.New("config: whitelist.enabled requires whitelist.path")
	}
	switch cfg.Database.Compression {
	case "none", "fast", "best":
	default:
		return Config{}, errors.Newf("config: invalid database.compression %q", cfg.Database.Compression)
	}
	return cfg, nil
}
