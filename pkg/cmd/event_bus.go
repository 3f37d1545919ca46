// Package cmd provides the constructors shared by the command-line applications.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/channels/gochannel"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/channels/kafka"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/eventbus"
)

// NewEventBus creates the event bus for provider "gochannel" (in process) or
// "kafka". brokers is a comma separated list used by kafka.
func NewEventBus(provider, brokers string, logger *slog.Logger) (eventbus.EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "", "gochannel":
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-process pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, kafka.ParseBrokers(brokers), "seo-decision-engine")
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
