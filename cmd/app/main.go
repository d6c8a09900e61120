package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airoffice/config"
	"github.com/Domenick1991/airoffice/internal/bootstrap"
	"github.com/Domenick1991/airoffice/internal/cache"
	"github.com/Domenick1991/airoffice/internal/kafka"
	"github.com/Domenick1991/airoffice/internal/repository"
	"github.com/Domenick1991/airoffice/internal/service/airlines"
	"github.com/Domenick1991/airoffice/internal/service/booking"
	"github.com/Domenick1991/airoffice/internal/service/clients"
	"github.com/Domenick1991/airoffice/internal/service/flights"
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

	pool, err := repository.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		sugar.Fatalw("connect postgres", "error", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Worker.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	airlineRepo := repository.NewAirlineRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	svc := bootstrap.Services{
		Airlines: airlines.NewAirlineService(airlineRepo),
		Flights:  flights.NewFlightService(flightRepo, redisCache, sugar),
		Clients:  clients.NewClientService(clientRepo),
		Bookings: booking.NewBookingService(
			bookingRepo,
			flightRepo,
			clientRepo,
			airlineRepo,
			redisCache,
			producer,
			cfg.Kafka.BookingTopic,
			sugar,
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
	}

	if err := bootstrap.Run(ctx, cfg, svc, sugar); err != nil {
		sugar.Fatalw("server error", "error", err)
	}
}
