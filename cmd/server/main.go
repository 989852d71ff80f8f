// Command server boots the railway reservation API: it loads
// configuration, connects the ambient backends (MySQL, Redis, RabbitMQ),
// rehydrates the in-memory reservation engine from the last snapshot if
// one exists, and starts the Echo HTTP server.
package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/railway-reservation/internal/config"
	"github.com/iliyamo/railway-reservation/internal/events"
	"github.com/iliyamo/railway-reservation/internal/handler"
	"github.com/iliyamo/railway-reservation/internal/middleware"
	"github.com/iliyamo/railway-reservation/internal/reservation"
	"github.com/iliyamo/railway-reservation/internal/router"
	"github.com/iliyamo/railway-reservation/internal/store"
)

const auditLogPath = "railway-audit.log"

func main() {
	_ = godotenv.Load() // local .env is optional; real deployments set env vars directly

	cfg := config.Load()

	db, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable at startup: caching and rate limiting are disabled")
	}

	engine := bootEngine(db, cfg)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	handlers := router.Handlers{
		Health:      handler.NewHealthHandler(db.DB(), rdb),
		Reservation: handler.NewReservationHandler(engine),
		Staff:       handler.NewStaffHandler(cfg, auditLogPath),
		Slip:        handler.NewSlipHandler(engine),
	}

	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()
	router.Register(e, handlers, cfg.JWTSecret,
		middleware.NewRedisCache(cacheCfg, rdb),
		middleware.NewTokenBucket(rateCfg, rdb),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// bootEngine rehydrates the reservation engine from the last MySQL
// snapshot, wires it to persist future snapshots back to MySQL, and
// starts a RabbitMQ publisher/consumer pair for the domain event stream.
func bootEngine(db *store.Store, cfg config.Config) *reservation.Engine {
	publisher, err := events.NewPublisher(cfg.AMQPURL)
	if err != nil {
		log.Printf("events: publisher unavailable: %v (bookings will not be published)", err)
		publisher = nil
	}

	opts := reservation.Options{Persister: db, Clock: time.Now}
	if publisher != nil {
		opts.Notifier = publisher
	}

	var engine *reservation.Engine
	if snap, ok, err := db.Load(); err != nil {
		log.Printf("store: failed to load snapshot, starting empty: %v", err)
		engine = reservation.NewEngine(opts)
	} else if ok {
		engine = reservation.Restore(opts, snap)
	} else {
		engine = reservation.NewEngine(opts)
	}

	logFile, err := os.OpenFile(auditLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("events: audit log unavailable: %v", err)
	} else if publisher != nil {
		consumer := events.NewConsumer(cfg.AMQPURL, logFile)
		go consumer.Run()
	}

	return engine
}
