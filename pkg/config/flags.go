package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so the same logical flag
// (e.g. --base-url on "sdr chat", "sdr research" and "sdr serve mcp")
// cannot drift between commands.
type Flag struct {
	// Name is the long flag name (e.g. "base-url").
	Name string

	// Shorthand is the one-letter short flag (e.g. "s"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "client.base_url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddStringSliceFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagBaseURL             = "base-url"
	FlagSession             = "session"
	FlagTimeout             = "timeout"
	FlagTranscriptProvider  = "transcript-provider"
	FlagSQLite              = "sqlite"
	FlagPostgres            = "postgres"
	FlagEventStreamProvider = "eventstream-provider"
	FlagKafkaBrokers        = "kafka-brokers"
	FlagKafkaTopic          = "kafka-topic"
	FlagDevServerDelay      = "delay"

	// Standalone serve subcommands use "listen" as the flag name
	// but bind to different viper keys depending on the service.
	FlagDevServerListen = "devserver-listen"
	FlagMCPListen       = "mcp-listen"
)

// Flags is the registry shared by every sdr command.
var Flags = FlagSet{
	FlagBaseURL:             {Name: "base-url", Shorthand: "u", ViperKey: "client.base_url", Description: "SDR server API base URL"},
	FlagSession:             {Name: "session", Shorthand: "s", ViperKey: "client.session_id", Description: "Chat session ID (default: resume the saved session)"},
	FlagTimeout:             {Name: "timeout", ViperKey: "client.timeout", Description: "Maximum duration of one streamed turn (0s disables)"},
	FlagTranscriptProvider:  {Name: "transcript-provider", ViperKey: "transcript.provider", Description: "Transcript store (none, sqlite, postgres)"},
	FlagSQLite:              {Name: "sqlite", ViperKey: "transcript.sqlite_path", Description: "Path to the SQLite transcript database"},
	FlagPostgres:            {Name: "postgres", ViperKey: "transcript.postgres_dsn", Description: "Postgres DSN for the transcript store"},
	FlagEventStreamProvider: {Name: "eventstream-provider", ViperKey: "eventstream.provider", Description: "Turn event publisher (none, kafka)"},
	FlagKafkaBrokers:        {Name: "kafka-brokers", ViperKey: "eventstream.brokers", Description: "Kafka broker addresses"},
	FlagKafkaTopic:          {Name: "kafka-topic", ViperKey: "eventstream.topic", Description: "Kafka topic for turn events"},
	FlagDevServerDelay:      {Name: "delay", ViperKey: "devserver.delay", Description: "Pause between streamed events"},
	FlagDevServerListen:     {Name: "listen", Shorthand: "l", ViperKey: "devserver.listen", Description: "Address for the development server to listen on"},
	FlagMCPListen:           {Name: "listen", Shorthand: "l", ViperKey: "mcp.listen", Description: "Address for the MCP server to listen on"},
}

// RecorderFlags are the registry keys for commands that record turns.
var RecorderFlags = []string{
	FlagTranscriptProvider,
	FlagSQLite,
	FlagPostgres,
	FlagEventStreamProvider,
	FlagKafkaBrokers,
	FlagKafkaTopic,
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddStringSliceFlag registers a comma separated list flag on cmd from the given FlagSet.
func AddStringSliceFlag(cmd *cobra.Command, fs FlagSet, key string, target *[]string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultStringSlice(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringSliceVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringSliceVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddRecorderFlags registers every flag in RecorderFlags on cmd.
func AddRecorderFlags(cmd *cobra.Command, fs FlagSet, cfg *RecorderFlagValues) {
	AddStringFlag(cmd, fs, FlagTranscriptProvider, &cfg.TranscriptProvider)
	AddStringFlag(cmd, fs, FlagSQLite, &cfg.SQLitePath)
	AddStringFlag(cmd, fs, FlagPostgres, &cfg.PostgresDSN)
	AddStringFlag(cmd, fs, FlagEventStreamProvider, &cfg.EventStreamProvider)
	AddStringSliceFlag(cmd, fs, FlagKafkaBrokers, &cfg.KafkaBrokers)
	AddStringFlag(cmd, fs, FlagKafkaTopic, &cfg.KafkaTopic)
}

// RecorderFlagValues holds the raw values of the recorder flags. Commands
// read the effective values back through viper after BindRegisteredFlags.
type RecorderFlagValues struct {
	TranscriptProvider  string
	SQLitePath          string
	PostgresDSN         string
	EventStreamProvider string
	KafkaBrokers        []string
	KafkaTopic          string
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultStringSlice returns the default list value for a viper key from NewDefaultConfig.
func defaultStringSlice(viperKey string) []string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetStringSlice(viperKey)
}
