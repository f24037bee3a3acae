package objeto

import (
	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/middleware"
)

// SetupRoutes configura las rutas del API de objetos
func (s *ObjetoService) SetupRoutes(app *fiber.App) {
	// Rutas públicas de consulta
	app.Get("/api/objetos", s.GetObjetos)
	app.Get("/api/objetos/cercanos", s.GetObjetosCercanos)

	// Rutas protegidas (antes de /:id para que "mis" no se interprete como ID)
	api := app.Group("/api/objetos")
	api.Get("/mis", s.GetMisObjetos, middleware.AuthMiddleware(s.jwtService))
	api.Post("/", s.CreateObjeto, middleware.AuthMiddleware(s.jwtService))
	api.Put("/:id", s.UpdateObjeto, middleware.AuthMiddleware(s.jwtService))
	api.Delete("/:id", s.DeleteObjeto, middleware.AuthMiddleware(s.jwtService))

	// Detalle público
	app.Get("/api/objetos/:id", s.GetObjeto)
}
