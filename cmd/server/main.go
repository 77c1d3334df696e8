package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/router"
	"github.com/iliyamo/event-ticketing/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly and the file is optional.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared pool.
	eventRepo := repository.NewEventRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	statsRepo := repository.NewAnalyticsRepo(db)

	// Core services. The audit notifier forwards booking and redemption
	// events to the broker after state is committed.
	notifier := queue.AuditNotifier{}
	ledger := service.NewLedger(eventRepo)
	bookingSvc := service.NewBookingService(ledger, eventRepo, bookingRepo, notifier)
	ticketSvc := service.NewTicketService(bookingRepo, notifier)
	catalogSvc := service.NewCatalogService(repository.NewCatalog(eventRepo, bookingRepo))

	// Background consumer appending broker events to the audit log. It
	// reconnects forever and never takes the API down.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Handlers{
		Events:    handler.NewEventHandler(catalogSvc),
		Bookings:  handler.NewBookingHandler(bookingSvc, ticketSvc),
		Tickets:   handler.NewTicketHandler(ticketSvc),
		Analytics: handler.NewAnalyticsHandler(statsRepo),
	}, cfg.JWTSecret, config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
