package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config represents the persistent sdr configuration stored as config.toml
// in the .sdr/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Client      ClientConfig      `toml:"client"`
	Transcript  TranscriptConfig  `toml:"transcript"`
	EventStream EventStreamConfig `toml:"eventstream"`
	DevServer   DevServerConfig   `toml:"devserver"`
	MCP         MCPConfig         `toml:"mcp"`
}

// ClientConfig holds settings for commands that talk to the SDR server
// (e.g. sdr chat, sdr research, sdr history).
type ClientConfig struct {
	// BaseURL is the API root, e.g. http://localhost:5001/api.
	BaseURL string `toml:"base_url,omitempty"`

	// SessionID pins the chat session. Empty resumes the saved session or
	// starts a new one.
	SessionID string `toml:"session_id,omitempty"`

	// Timeout bounds one streamed turn, in time.ParseDuration syntax.
	// "0s" disables it.
	Timeout string `toml:"timeout,omitempty"`
}

// TranscriptConfig selects where committed turns are recorded.
type TranscriptConfig struct {
	Provider    string `toml:"provider,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventStreamConfig selects where turn committed events are published.
type EventStreamConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// DevServerConfig holds settings for the scripted development server.
type DevServerConfig struct {
	Listen string `toml:"listen,omitempty"`

	// Delay is the pause between streamed events.
	Delay string `toml:"delay,omitempty"`
}

// MCPConfig holds settings for the MCP bridge server.
type MCPConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeyOrder lists the keys of configKeys in config.toml section order.
var configKeyOrder = []string{
	"client.base_url",
	"client.session_id",
	"client.timeout",
	"transcript.provider",
	"transcript.sqlite_path",
	"transcript.postgres_dsn",
	"eventstream.provider",
	"eventstream.brokers",
	"eventstream.topic",
	"devserver.listen",
	"devserver.delay",
	"mcp.listen",
}

// configKeys holds every key accepted by sdr config, in dotted
// section.field form.
var configKeys = map[string]configKeyInfo{
	"client.base_url": {
		get: func(c *Config) string { return c.Client.BaseURL },
		set: func(c *Config, v string) error { c.Client.BaseURL = v; return nil },
	},
	"client.session_id": {
		get: func(c *Config) string { return c.Client.SessionID },
		set: func(c *Config, v string) error { c.Client.SessionID = v; return nil },
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if err := validateDuration("client.timeout", v); err != nil {
				return err
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"transcript.provider": {
		get: func(c *Config) string { return c.Transcript.Provider },
		set: func(c *Config, v string) error {
			if err := validateChoice("transcript.provider", v, TranscriptProviders); err != nil {
				return err
			}
			c.Transcript.Provider = v
			return nil
		},
	},
	"transcript.sqlite_path": {
		get: func(c *Config) string { return c.Transcript.SQLitePath },
		set: func(c *Config, v string) error { c.Transcript.SQLitePath = v; return nil },
	},
	"transcript.postgres_dsn": {
		get: func(c *Config) string { return c.Transcript.PostgresDSN },
		set: func(c *Config, v string) error { c.Transcript.PostgresDSN = v; return nil },
	},
	"eventstream.provider": {
		get: func(c *Config) string { return c.EventStream.Provider },
		set: func(c *Config, v string) error {
			if err := validateChoice("eventstream.provider", v, EventStreamProviders); err != nil {
				return err
			}
			c.EventStream.Provider = v
			return nil
		},
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return strings.Join(c.EventStream.Brokers, ",") },
		set: func(c *Config, v string) error { c.EventStream.Brokers = splitList(v); return nil },
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
	"devserver.listen": {
		get: func(c *Config) string { return c.DevServer.Listen },
		set: func(c *Config, v string) error { c.DevServer.Listen = v; return nil },
	},
	"devserver.delay": {
		get: func(c *Config) string { return c.DevServer.Delay },
		set: func(c *Config, v string) error {
			if err := validateDuration("devserver.delay", v); err != nil {
				return err
			}
			c.DevServer.Delay = v
			return nil
		},
	},
	"mcp.listen": {
		get: func(c *Config) string { return c.MCP.Listen },
		set: func(c *Config, v string) error { c.MCP.Listen = v; return nil },
	},
}

func validateDuration(key, v string) error {
	if _, err := time.ParseDuration(v); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func validateChoice(key, v string, choices []string) error {
	if slices.Contains(choices, v) {
		return nil
	}
	return fmt.Errorf("invalid value for %s: %q (available: %s)", key, v, strings.Join(choices, ", "))
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
