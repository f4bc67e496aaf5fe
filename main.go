package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"authsvc/internal/config"
	"authsvc/internal/handlers"
	"authsvc/internal/middleware"
	"authsvc/internal/models"
	"authsvc/internal/repositories"
	"authsvc/internal/services"
	"authsvc/pkg/mailqueue"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Mail queue client ---
	mqClient, err := mailqueue.NewClient(mailqueue.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize mail queue client: %v", err)
	}
	defer mqClient.Close()

	// --- Repositories / services / handlers ---
	userRepo := repositories.NewGORMUserRepository(db)
	tokenService := services.NewTokenService(cfg)
	authService := services.NewAuthService(userRepo, tokenService, mqClient, cfg)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Fiber app ---
	app := fiber.New()

	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1, middleware.AuthRequired(tokenService))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start the mail delivery worker ---
	// The worker consumes queued reset emails. Actual SMTP delivery belongs
	// to a separate process; this one logs the hand-off. The email body
	// carries the raw reset token and is never logged.
	go func() {
		log.Println("Starting mail delivery worker...")
		deliver := func(email mailqueue.Email) error {
			log.Printf("Delivering email to %s (%s)", email.To, email.Subject)
			return nil
		}
		if consumerErr := mqClient.ConsumeEmailJobs(deliver); consumerErr != nil {
			log.Printf("Failed to start mail delivery worker: %v", consumerErr)
		}
	}()

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured GORM backend. TranslateError makes
// unique-index violations surface as gorm.ErrDuplicatedKey on both drivers.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.DBDriver == "postgres" {
		return gorm.Open(postgres.Open(cfg.DBDSN), gormCfg)
	}
	return gorm.Open(sqlite.Open(cfg.DBDSN), gormCfg)
}
