package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/db"
	"github.com/prostore/prostore-backend/internal/events"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/prostore/prostore-backend/pkg/mail"
)

// The notifier consumes order.paid events and mails purchase receipts.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "json",
		EnableColor: false,
	})

	if !cfg.Kafka.Enabled() {
		logger.Fatal("Kafka is not configured", errors.New("KAFKA_BROKERS is empty"))
	}

	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close(database)

	notifications := service.NewNotificationService(
		repository.NewOrderRepository(database),
		mail.NewSender(&cfg.Email),
		mail.FromAddress(&cfg.Email),
		cfg.Server.PublicURL,
	)

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, cfg.Kafka.ConsumerGroup)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Notifier started", map[string]interface{}{
		"brokers": cfg.Kafka.Brokers,
		"topic":   cfg.Kafka.OrderTopic,
		"group":   cfg.Kafka.ConsumerGroup,
	})

	if err := consumer.Consume(ctx, notifications.HandleOrderPaid); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notifier stopped with error", err)
		return
	}
	logger.Info("Notifier stopped")
}
