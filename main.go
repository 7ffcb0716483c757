package main

import (
	"context"
	"log"
	"time"

	"github.com/campusbook/booking-service/config"
	"github.com/campusbook/booking-service/internal/handler"
	"github.com/campusbook/booking-service/internal/middleware"
	"github.com/campusbook/booking-service/internal/notify"
	"github.com/campusbook/booking-service/internal/repository"
	"github.com/campusbook/booking-service/internal/service"
	"github.com/campusbook/booking-service/pkg/database"
	"github.com/campusbook/booking-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ publisher: lifecycle notifications for downstream delivery
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, "bookings")
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Services
	bookingSvc := service.NewBookingService(bookingRepo, resourceRepo, notify.NewAMQPNotifier(publisher))
	reviewSvc := service.NewReviewService(reviewRepo, bookingRepo)

	// Periodic sweep: move past approved bookings into completed
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			count, err := bookingSvc.SweepCompleted(context.Background(), time.Now())
			if err != nil {
				log.Printf("[Sweep] failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("[Sweep] marked %d bookings completed", count)
			}
		}
	}()

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "booking-service"})
	})

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)
	handler.NewReviewHandler(reviewSvc).RegisterRoutes(e)

	log.Printf("Booking Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
