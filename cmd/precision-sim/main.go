package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// precision-sim is a standalone stand-in for the Precision Platform. It
// serves deterministic recommendation payloads so the ingestion service can
// be exercised locally without the real upstream.
var (
	port    = flag.Int("port", 5000, "HTTP port to listen on")
	latency = flag.Duration("latency", 0, "Artificial response latency")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app := fiber.New(fiber.Config{
		AppName:               "precision-sim",
		DisableStartupMessage: true,
	})

	app.Get("/api/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "precision-sim",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Get("/api/v1/recommendations", func(c *fiber.Ctx) error {
		if *latency > 0 {
			time.Sleep(*latency)
		}

		fieldID := c.Query("field_id")
		if fieldID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "field_id query parameter is required",
			})
		}

		report, ok := reportFor(fieldID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("field '%s' not found", fieldID),
			})
		}

		logger.Info("Serving recommendations",
			zap.String("field_id", fieldID),
		)
		return c.JSON(report)
	})

	go func() {
		logger.Info("Precision Platform simulator listening", zap.Int("port", *port))
		if err := app.Listen(fmt.Sprintf(":%d", *port)); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down simulator")
	_ = app.Shutdown()
}
