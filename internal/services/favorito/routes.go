package favorito

import (
	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/middleware"
)

// SetupRoutes configura las rutas del API de favoritos
func (s *FavoritoService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/favoritos")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Post("/", s.AddFavorito)
	api.Get("/", s.GetFavoritos)
	api.Delete("/:objetoId", s.RemoveFavorito)
}
