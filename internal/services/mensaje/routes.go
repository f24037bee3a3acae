package mensaje

import (
	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/middleware"
)

// SetupRoutes configura las rutas del chat de ofertas
func (s *MensajeService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/ofertas/:id/mensajes")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Get("/", s.GetMensajes)
	api.Post("/", s.SendMensaje)
}
