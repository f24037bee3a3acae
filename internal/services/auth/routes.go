package auth

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes configura las rutas del API de autenticación
func (s *AuthService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/registro", s.Registro)
	api.Post("/login", s.Login)
	api.Post("/recuperar", s.RecuperarPassword)
	api.Post("/reset", s.ResetPassword)
}
