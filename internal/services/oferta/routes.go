package oferta

import (
	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/middleware"
)

// SetupRoutes configura las rutas del API de ofertas
func (s *OfertaService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/ofertas")

	// Todas las rutas de ofertas requieren autenticación
	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Post("/", s.CreateOferta)
	api.Get("/", s.GetMisOfertas)
	api.Get("/:id", s.GetOferta)
	api.Put("/:id/estado", s.UpdateEstadoOferta)
}
