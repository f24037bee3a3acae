package perfil

import (
	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/middleware"
)

// SetupRoutes configura las rutas del API de perfiles
func (s *PerfilService) SetupRoutes(app *fiber.App) {
	// Perfil del usuario autenticado
	profile := app.Group("/api/profile")
	profile.Use(middleware.AuthMiddleware(s.jwtService))

	profile.Get("/", s.GetMiPerfil)
	profile.Put("/", s.UpdateMiPerfil)
	profile.Put("/location", s.SetUbicacion)
	profile.Delete("/location", s.ClearUbicacion)

	// Perfiles públicos
	app.Get("/api/perfiles/:id", s.GetPerfilPublico)
}
