package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/keyhaven/keyhaven/internal/checkout"
	"github.com/keyhaven/keyhaven/internal/config"
	kafkax "github.com/keyhaven/keyhaven/internal/kafka"
	"github.com/keyhaven/keyhaven/internal/keypool"
	"github.com/keyhaven/keyhaven/internal/postgres"
	"github.com/keyhaven/keyhaven/internal/redisx"
	"github.com/keyhaven/keyhaven/internal/stockwatch"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", cfg.ServiceName+"-stockwatch").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stockwatch.Service{
		Keys:        &keypool.Repo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-stockwatch",
		Threshold:   cfg.LowStockThreshold,
		Log:         log,
	}

	group := getenv("STOCKWATCH_GROUP", "stockwatch")
	workers := mustAtoi(os.Getenv("STOCKWATCH_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, checkout.TopicPurchaseCompleted, workers)

	go func() {
		log.Info().Str("group", group).Str("topic", checkout.TopicPurchaseCompleted).
			Int("workers", workers).Msg("consumer started")
		if err := cons.Start(ctx, svc.HandlePurchaseCompleted); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
