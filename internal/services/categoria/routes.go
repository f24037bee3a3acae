package categoria

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes configura las rutas del catálogo de categorías
func (s *CategoriaService) SetupRoutes(app *fiber.App) {
	app.Get("/api/categorias", s.GetCategorias)
}
