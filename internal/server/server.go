package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/tripdesk/intentcore/internal/controllers"
	"github.com/tripdesk/intentcore/internal/version"
)

type HTTPServerDependencies struct {
	ClassificationController *controllers.ClassificationController
}

func NewHTTPServer(deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "intentcore",
	})

	router.Use(cors.New())
	router.Use(logger.New())

	// Health check endpoint (no authentication required)
	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"service":   "intentcore",
			"version":   version.GetVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := router.Group("/v1")

	v1.Post("/classify", deps.ClassificationController.Classify)
	v1.Post("/intents/:intent/examples", deps.ClassificationController.AddExample)
	v1.Post("/embeddings/regenerate", deps.ClassificationController.RegenerateEmbeddings)

	sessions := v1.Group("/sessions/:sessionID")
	sessions.Get("/context", deps.ClassificationController.GetContextInfo)
	sessions.Delete("/context", deps.ClassificationController.ResetContext)

	return router
}
