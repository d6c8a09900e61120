package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airoffice/config"
	"github.com/Domenick1991/airoffice/internal/email"
	"github.com/Domenick1991/airoffice/internal/kafka"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		sugar.Fatalw("load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, sugar)
	defer consumer.Close()

	sender := email.NewSender(sugar)

	sugar.Infow("notifications worker started", "topic", cfg.Kafka.NotificationsTopic)

	err = consumer.Consume(ctx, sender.Send)
	if err != nil && !errors.Is(err, context.Canceled) {
		sugar.Errorw("consumer stopped", "error", err)
	}
}
