package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/airoffice/api"
	"github.com/Domenick1991/airoffice/config"
	"github.com/Domenick1991/airoffice/internal/service/airlines"
	"github.com/Domenick1991/airoffice/internal/service/booking"
	"github.com/Domenick1991/airoffice/internal/service/clients"
	"github.com/Domenick1991/airoffice/internal/service/flights"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Services struct {
	Airlines airlines.AirlineUseCase
	Flights  flights.FlightUseCase
	Clients  clients.ClientUseCase
	Bookings booking.BookingUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log *zap.SugaredLogger) error {
	router := NewRouter(svc, log)

	server := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("starting http server", "addr", cfg.HTTP.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// NewRouter assembles the gin engine with all entity handlers mounted
// under /api/v1.
func NewRouter(svc Services, log *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	v1 := router.Group("/api/v1")
	api.NewAirlineHandler(svc.Airlines, svc.Flights).Register(v1.Group("/airlines"))
	api.NewFlightHandler(svc.Flights).Register(v1.Group("/flights"))
	api.NewClientHandler(svc.Clients, svc.Bookings).Register(v1.Group("/clients"))
	api.NewBookingHandler(svc.Bookings).Register(v1.Group("/bookings"))

	return router
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
