package categoria

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/models"
)

// CategoriaService representa el servicio del catálogo de categorías
type CategoriaService struct {
	cfg *config.Config
}

// NewCategoriaService crea una nueva instancia de CategoriaService
func NewCategoriaService(cfg *config.Config) *CategoriaService {
	return &CategoriaService{cfg: cfg}
}

// GetCategorias devuelve todas las categorías ordenadas para la interfaz
func (s *CategoriaService) GetCategorias(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT id, nombre, slug, descripcion, icono, color, orden
        FROM categorias
        ORDER BY orden ASC, nombre ASC
    `)
	if err != nil {
		log.Printf("Error al consultar las categorías: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener las categorías"})
	}
	defer rows.Close()

	var categorias []models.Categoria
	for rows.Next() {
		var cat models.Categoria
		if err := rows.Scan(&cat.ID, &cat.Nombre, &cat.Slug, &cat.Descripcion, &cat.Icono, &cat.Color, &cat.Orden); err != nil {
			log.Printf("Error al escanear la fila de categoría: %v", err)
			continue
		}
		categorias = append(categorias, cat)
	}

	return c.JSON(fiber.Map{
		"categorias": categorias,
		"count":      len(categorias),
	})
}
