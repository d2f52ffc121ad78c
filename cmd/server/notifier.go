package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mctflow/mct-tracker/internal/config"
	"github.com/mctflow/mct-tracker/internal/notify"
	"github.com/mctflow/mct-tracker/internal/platform/kafka"
	"github.com/mctflow/mct-tracker/internal/platform/ses"
)

// buildNotifier creates the delivery transport selected by cfg.Channel.
// The caller wraps it in a notify.AsyncNotifier.
func buildNotifier(ctx context.Context, cfg config.NotifyConfig, log *slog.Logger) (notify.Notifier, func() error, error) {
	switch cfg.Channel {
	case "log":
		return notify.NewLogNotifier(log), nil, nil

	case "email":
		sender, err := ses.NewSenderFromEnvironment(ctx, cfg.AWSRegion, cfg.FromAddress)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create ses sender: %w", err)
		}
		log.Info("email notifications enabled", "rate_per_second", cfg.RatePerSecond)
		return notify.NewEmailNotifier(sender, cfg.RatePerSecond), nil, nil

	case "kafka":
		p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		log.Info("kafka notifications enabled", "topic", cfg.KafkaTopic)
		return p, p.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown notify channel %q", cfg.Channel)
	}
}
