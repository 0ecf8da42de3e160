package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/config"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/email"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kafka"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kvstore"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/logging"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/flights"
)

// The worker consumes booking events for confirmation notifications and
// periodically sweeps expired flight-cache entries out of the KV store.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	store := kvstore.NewPGStore(pool)
	flightSvc := flights.NewFlightService(nil, store, time.Duration(cfg.Search.CacheTTLMinutes)*time.Minute, logger)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, logger)
	defer consumer.Close()

	sender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, sender.Send); err != nil {
			logger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.CacheSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			purged, err := flightSvc.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("cache sweep failed", zap.Error(err))
				continue
			}
			if purged > 0 {
				logger.Info("purged expired flight-cache entries", zap.Int("count", purged))
			}
		case s := <-sig:
			logger.Info("received signal, shutting down", zap.String("signal", s.String()))
			return
		}
	}
}
