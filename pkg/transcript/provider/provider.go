// Package provider opens the transcript driver named by the configuration.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/transcript"
	"github.com/papercomputeco/sdr/pkg/transcript/postgres"
	"github.com/papercomputeco/sdr/pkg/transcript/sqlite"
)

// ErrDisabled is returned for the "none" provider.
var ErrDisabled = errors.New("transcripts are disabled")

// NewDriver opens the driver for cfg.Provider.
func NewDriver(ctx context.Context, cfg config.TranscriptConfig) (transcript.Driver, error) {
	switch cfg.Provider {
	case config.ProviderNone:
		return nil, ErrDisabled

	case config.ProviderSQLite, "":
		if cfg.SQLitePath == "" {
			return nil, errors.New("sqlite path is required")
		}
		driver, err := sqlite.NewDriver(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite transcript driver: %w", err)
		}
		return driver, nil

	case config.ProviderPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is required")
		}
		driver, err := postgres.NewDriver(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL transcript driver: %w", err)
		}
		return driver, nil

	default:
		return nil, fmt.Errorf("unknown transcript provider %q", cfg.Provider)
	}
}
