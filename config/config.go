// Package config loads the transports and tuning knobs of the stack from a
// YAML file, with TUPLECTL_ environment variables taking precedence.
package config

import (
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	ipv4 "sip-stack/network/ip/v4"
	"sip-stack/transport"
	"sip-stack/transport/tuple"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var ErrConfigInvalid = errors.New("invalid configuration")

const EnvPrefix = "TUPLECTL"

type Config struct {
	Log        LogConfig         `mapstructure:"log"`
	IPv6       bool              `mapstructure:"ipv6"`
	Ports      PortsConfig       `mapstructure:"ports"`
	Conn       ConnConfig        `mapstructure:"conn"`
	Transports []TransportConfig `mapstructure:"transports"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty logs to stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type PortsConfig struct {
	EphemeralStart uint16 `mapstructure:"ephemeral_start"`
	EphemeralEnd   uint16 `mapstructure:"ephemeral_end"`
	MaxTry         uint   `mapstructure:"max_try"`
}

type ConnConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// TransportConfig describes one binding. An empty address binds the
// wildcard of the family selected by V6.
type TransportConfig struct {
	Name      string         `mapstructure:"name"`
	Address   string         `mapstructure:"address"`
	Port      uint16         `mapstructure:"port"`
	Transport transport.Type `mapstructure:"transport"`
	V6        bool           `mapstructure:"v6"`
	Domain    string         `mapstructure:"domain"`
}

var defaults = map[string]any{
	"log.level":             "info",
	"log.file":              "",
	"log.max_size_mb":       10,
	"log.max_backups":       3,
	"ipv6":                  tuple.IPv6Enabled,
	"ports.ephemeral_start": 49152,
	"ports.ephemeral_end":   65535,
	"ports.max_try":         32,
	"conn.idle_timeout":     "5m",
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration at path and validates it.
func Load(path string) (*Config, error) {
	v := newViper()

	ext := filepath.Ext(path)
	v.SetConfigFile(path)
	v.SetConfigType(strings.TrimPrefix(ext, "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Wrapf(ErrConfigInvalid, "decoding: %s", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return errors.Wrapf(ErrConfigInvalid, "log.level %q", c.Log.Level)
	}

	p := c.Ports
	if p.EphemeralStart == 0 || p.EphemeralStart >= p.EphemeralEnd {
		return errors.Wrapf(ErrConfigInvalid, "ephemeral range [%d, %d)", p.EphemeralStart, p.EphemeralEnd)
	}
	if p.MaxTry == 0 {
		return errors.Wrap(ErrConfigInvalid, "ports.max_try must be positive")
	}

	if c.Conn.IdleTimeout <= 0 {
		return errors.Wrap(ErrConfigInvalid, "conn.idle_timeout must be positive")
	}

	seen := make(map[string]bool, len(c.Transports))
	for idx, t := range c.Transports {
		if t.Name == "" {
			return errors.Wrapf(ErrConfigInvalid, "transports[%d]: missing name", idx)
		}
		if seen[t.Name] {
			return errors.Wrapf(ErrConfigInvalid, "transports[%d]: duplicate name %q", idx, t.Name)
		}
		seen[t.Name] = true

		if t.Transport == transport.Unknown {
			return errors.Wrapf(ErrConfigInvalid, "transports[%d] %s: transport type is required", idx, t.Name)
		}
		if t.wantsV6() && !(c.IPv6 && tuple.IPv6Enabled) {
			return errors.Wrapf(ErrConfigInvalid, "transports[%d] %s: ipv6 is disabled", idx, t.Name)
		}
		if _, err := t.Tuple(); err != nil {
			return errors.Wrapf(ErrConfigInvalid, "transports[%d] %s: %s", idx, t.Name, err)
		}
	}

	return nil
}

// SlogLevel returns the configured level. Validate must have succeeded.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.Level))
	return level
}

// PortTable builds the ephemeral port allocator for the configured range.
func (c PortsConfig) PortTable() *transport.PortTable {
	return transport.NewPortTable(transport.EphemeralPortOptions{
		Range:  [2]uint16{c.EphemeralStart, c.EphemeralEnd},
		Rand:   func() uint16 { return uint16(rand.UintN(1 << 16)) },
		MaxTry: c.MaxTry,
	})
}

func (t TransportConfig) wantsV6() bool {
	if t.Address == "" {
		return t.V6
	}
	return !ipv4.IsAddr(t.Address)
}

// Tuple returns the interface the transport binds to.
func (t TransportConfig) Tuple() (tuple.Tuple, error) {
	if t.Address == "" {
		return tuple.New("", t.Port, !t.V6, t.Transport, t.Domain)
	}
	return tuple.Parse(t.Address, t.Port, t.Transport, t.Domain)
}
