package main

import (
	"log"
	"os"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/config"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database/seeders"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/routes"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services/notifications"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load configuration
	config.LoadConfig()

	// Initialize logging
	setupLogging()

	// Connect to database
	database.Connect()

	// Optional seed data for fresh environments
	if os.Getenv("SEED_DB") == "true" {
		seeders.SeedAll()
	}

	// Start log maintenance scheduler
	logArchiveService := services.NewLogArchiveService()
	logArchiveService.StartLogMaintenanceScheduler()
}

func main() {
	// Create WebSocket hub first
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Custom middleware
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.LogActivityMiddleware())

	// Wire notifications to the WebSocket hub globally so any new Service uses it
	notifications.SetDefaultWSHub(wsHub)
	notifService := notifications.NewService()
	notifService.SetWebSocketHub(wsHub)
	if config.AppConfig.UseRedisNotifications {
		stopNotif := make(chan struct{})
		notifService.StartWorker(stopNotif)
	}

	// Morning sweep for classes with no attendance marked yet
	reminder := services.NewAttendanceReminder()
	if err := reminder.Start(); err != nil {
		log.Printf("Warning: attendance reminder not started: %v", err)
	}

	// API routes
	routes.SetupRoutes(app, wsHub)
	routes.SetupStaticRoutes(app)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	// Start server (listen on all interfaces for Docker/production)
	addr := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", config.AppConfig.Port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)

	if err := app.Listen(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.AppConfig.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if config.AppConfig.AppEnv == "development" {
		logrus.SetOutput(os.Stdout)
	} else {
		file, err := os.OpenFile(config.AppConfig.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logrus.SetOutput(file)
		}
	}
}

// customErrorHandler handles application errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logrus.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Path(),
		"method": c.Method(),
		"ip":     c.IP(),
		"status": code,
	}).Error("Request error")

	return c.Status(code).JSON(fiber.Map{
		"error":  message,
		"code":   code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}
