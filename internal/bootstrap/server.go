package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/api"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/config"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/booking"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/flights"
	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/service/listings"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	provider identity.Provider,
	flightSvc flights.SearchUseCase,
	listingSvc listings.ListingUseCase,
	bookingSvc booking.BookingUseCase,
	logger *zap.Logger,
) error {
	engine := NewEngine(cfg, provider, flightSvc, listingSvc, bookingSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	logger.Info("http server started",
		zap.String("address", cfg.HTTP.Address), zap.String("base_path", cfg.HTTP.BasePath))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewEngine assembles the gin router with every route group mounted under
// the configured base path.
func NewEngine(
	cfg *config.Config,
	provider identity.Provider,
	flightSvc flights.SearchUseCase,
	listingSvc listings.ListingUseCase,
	bookingSvc booking.BookingUseCase,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	root := engine.Group(cfg.HTTP.BasePath)
	root.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := api.AuthRequired(provider)

	api.NewAuthHandler(provider).Register(root)
	api.NewFlightHandler(flightSvc).Register(root)
	api.NewListingHandler(listingSvc).Register(root, auth)
	api.NewBookingHandler(bookingSvc).Register(root, auth)

	return engine
}
