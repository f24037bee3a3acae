package valoracion

import (
	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/middleware"
)

// SetupRoutes configura las rutas del API de valoraciones
func (s *ValoracionService) SetupRoutes(app *fiber.App) {
	app.Post("/api/ofertas/:id/valoraciones", s.CreateValoracion, middleware.AuthMiddleware(s.jwtService))
	app.Get("/api/perfiles/:id/valoraciones", s.GetValoracionesPerfil)
}
