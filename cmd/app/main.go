package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/config"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/amadeus"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/bootstrap"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/cache"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kafka"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kvstore"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/logging"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/booking"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/flights"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/listings"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	store := kvstore.NewPGStore(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("migrate kv store: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.ListingsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	provider := identity.NewSupabaseProvider(cfg.Identity)

	var offersAPI flights.OffersAPI
	if cfg.Amadeus.Configured() {
		offersAPI = amadeus.NewClient(cfg.Amadeus)
	}

	flightSvc := flights.NewFlightService(offersAPI, store, time.Duration(cfg.Search.CacheTTLMinutes)*time.Minute, logger)
	listingSvc := listings.NewListingService(store, redisCache, logger)
	bookingSvc := booking.NewBookingService(store, producer, cfg.Kafka.BookingEventsTopic, logger)

	if err := bootstrap.Run(ctx, cfg, provider, flightSvc, listingSvc, bookingSvc, logger); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
