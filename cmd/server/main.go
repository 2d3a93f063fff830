package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/rulechess-backend/internal/config"
	"github.com/benbeisheim/rulechess-backend/internal/controller"
	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/middleware"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := cfg.Log.Apply(os.Stderr); err != nil {
		log.WithError(err).Fatal("configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger())

	gameManager := service.NewGameManager(model.Settings{
		Clock: cfg.Game.Clock,
		Rules: engine.Rules{ForbidSelfCheck: cfg.Game.ForbidSelfCheck},
	})
	gameManager.StartMatchmaking(ctx, cfg.Game.MatchmakingInterval)
	gameService := service.NewGameService(gameManager)

	controller.SetupRoutes(app,
		controller.NewGameController(gameService),
		controller.NewWebSocketController(gameService),
		websocket.Config{
			ReadBufferSize:  cfg.Server.ReadBufferSize,
			WriteBufferSize: cfg.Server.WriteBufferSize,
			Origins:         []string{cfg.Server.AllowOrigins},
		},
	)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.WithField("addr", cfg.Server.Addr).Info("listening")
	if err := app.Listen(cfg.Server.Addr); err != nil {
		log.WithError(err).Fatal("listen")
	}
}
