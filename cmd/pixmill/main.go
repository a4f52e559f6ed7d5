package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/pixmill/PixMill/app/controllers"
	"github.com/pixmill/PixMill/internal/pkg/env"
	"github.com/pixmill/PixMill/internal/pkg/jobqueue"
	"github.com/pixmill/PixMill/internal/pkg/router"
)

func main() {
	app := NewApplication()

	// loopback only: the control API is for the local UI, not the network
	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "127.0.0.1"), env.GetEnv("APP_PORT", "4100"))
	log.Fatal(app.Listen(addr))
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	if env.IsDev() {
		fiberlog.SetLevel(fiberlog.LevelDebug)
	}
	controllers.Setup()
	jobqueue.GetManager().Start()

	app := fiber.New(fiber.Config{
		AppName: "PixMill",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
