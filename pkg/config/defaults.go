package config

const (
	defaultBaseURL       = "http://localhost:5001/api"
	defaultClientTimeout = "10m"

	defaultTranscriptProvider = ProviderSQLite

	defaultEventStreamProvider = ProviderNone
	defaultKafkaBroker         = "localhost:9092"
	defaultKafkaTopic          = "sdr.turns"

	defaultDevServerListen = ":5001"
	defaultDevServerDelay  = "150ms"

	defaultMCPListen = ":5002"
)

// Provider names accepted by the transcript and eventstream sections.
const (
	ProviderNone     = "none"
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
	ProviderKafka    = "kafka"
)

var (
	TranscriptProviders  = []string{ProviderNone, ProviderSQLite, ProviderPostgres}
	EventStreamProviders = []string{ProviderNone, ProviderKafka}
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			BaseURL: defaultBaseURL,
			Timeout: defaultClientTimeout,
		},
		Transcript: TranscriptConfig{
			Provider: defaultTranscriptProvider,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Brokers:  []string{defaultKafkaBroker},
			Topic:    defaultKafkaTopic,
		},
		DevServer: DevServerConfig{
			Listen: defaultDevServerListen,
			Delay:  defaultDevServerDelay,
		},
		MCP: MCPConfig{
			Listen: defaultMCPListen,
		},
	}
}
