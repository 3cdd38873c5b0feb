// Package provider opens the turn event publisher named by the configuration.
package provider

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/sdr/pkg/config"
	"github.com/papercomputeco/sdr/pkg/eventstream"
	"github.com/papercomputeco/sdr/pkg/eventstream/kafka"
	"github.com/papercomputeco/sdr/pkg/eventstream/nop"
)

// NewPublisher returns the publisher for cfg.Provider. The "none" provider
// yields a publisher that drops every event.
func NewPublisher(cfg config.EventStreamConfig, log *slog.Logger) (eventstream.Publisher, error) {
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nop.NewPublisher(), nil

	case config.ProviderKafka:
		pub, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
			Logger:  log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
		}
		return pub, nil

	default:
		return nil, fmt.Errorf("unknown eventstream provider %q", cfg.Provider)
	}
}
