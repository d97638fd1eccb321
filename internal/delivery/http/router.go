package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/wizard/schema", handler.GetSchema)

		// Hosted wizards
		wizards := api.Group("/wizards")
		wizards.Post("/", handler.CreateWizard)
		wizards.Get("/:id", handler.GetWizard)
		wizards.Delete("/:id", handler.ResetWizard)
		wizards.Put("/:id/fields/:field", handler.UpdateField)
		wizards.Post("/:id/sets/:field/toggle", handler.ToggleSetMember)
		wizards.Put("/:id/image", handler.AttachImage)
		wizards.Delete("/:id/image", handler.DetachImage)
		wizards.Post("/:id/advance", handler.Advance)
		wizards.Post("/:id/retreat", handler.Retreat)

		// One-shot scoring
		api.Post("/predict", handler.Predict)

		// Sign-in sessions
		api.Post("/session", handler.SignIn)
		api.Get("/session/:id", handler.GetSession)
		api.Delete("/session/:id", handler.SignOut)
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
