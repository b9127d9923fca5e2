package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/jobs"
	"github.com/anjiri1684/interview_portal/logger"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/anjiri1684/interview_portal/routes"
	"github.com/anjiri1684/interview_portal/storage"
	"github.com/anjiri1684/interview_portal/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	config.App = cfg
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	if err := database.ConnectDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(database.DB); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	if err := database.SeedAdmin(database.DB, cfg); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}
	notifications.InitEmailService(cfg)

	store, fsStore, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("file storage setup failed")
	}
	storage.Default = store

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go websocket.Events.Run(ctx)

	scheduler, err := jobs.Start(database.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("job scheduling failed")
	}
	log.Info().Msg("background jobs scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "Interview Portal",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   60 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   120 * time.Second,
		BodyLimit:     200 * 1024 * 1024,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))

	routes.Setup(app, fsStore.Dir())

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		<-scheduler.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
