package cloudinary

import (
	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/middleware"
)

// SetupRoutes configura las rutas de subida de imágenes
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(s.jwtService))

	protected.Get("/upload/params", s.GenerateUploadParams)
}
