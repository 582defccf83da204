// handlers/routes.go
package handlers

import (
	"trivia-chat-server/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTriviaRoutes(app *fiber.App, game *services.GameService) {
	api := app.Group("/api")

	api.Post("/chat", game.Chat)
	api.Post("/answer", game.Answer)
	api.Post("/restart", game.Restart)
	api.Get("/highscore", game.HighScore)
}
