package main // entry point for the reservation API server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/database"
	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/notify"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: without it rate limiting and caching become
	// pass-throughs and bookings still work.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting and caching disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	prices := booking.PriceTable{
		GuestFeeCents: uint32(cfg.GuestFeeCents),
		CityTaxCents:  uint32(cfg.CityTaxCents),
	}
	svc := booking.NewService(roomRepo, reservationRepo, notify.NewPublisher(), prices)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	catalogHandler := handler.NewCatalogHandler(roomRepo, svc)
	bookingHandler := handler.NewBookingHandler(svc, reservationRepo)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogHandler, cache)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret, limiter)
	router.RegisterAdmin(e, catalogHandler, cfg.JWTSecret)

	// The consumer drains the notification queues into the guest-facing
	// log. It reconnects on its own, so a broker outage only delays
	// deliveries.
	go queue.StartNotificationConsumer()

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	// Let in-flight confirmation/cancellation notifications finish before
	// the process exits.
	svc.Flush()
}
