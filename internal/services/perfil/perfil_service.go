package perfil

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/utils"
)

// PerfilService representa el servicio de perfiles de usuario
type PerfilService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewPerfilService crea una nueva instancia de PerfilService
func NewPerfilService(cfg *config.Config) *PerfilService {
	return &PerfilService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetMiPerfil devuelve el perfil del usuario autenticado
func (s *PerfilService) GetMiPerfil(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	perfilID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	perfil, err := db.GetPerfil(ctx, perfilID)
	if err != nil {
		log.Printf("Error al obtener el perfil %s: %v", perfilID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Perfil no encontrado"})
	}

	return c.JSON(fiber.Map{"perfil": perfil})
}

// UpdateMiPerfil actualiza los datos editables del perfil
func (s *PerfilService) UpdateMiPerfil(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	perfilID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	var requestData struct {
		Nombre    string  `json:"nombre"`
		AvatarURL *string `json:"avatar_url"`
		Telefono  *string `json:"telefono"`
		Bio       *string `json:"bio"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Error al decodificar el cuerpo de la petición: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	nombre := strings.TrimSpace(requestData.Nombre)
	if nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "El nombre es obligatorio"})
	}

	if err := db.UpdatePerfil(perfilID, nombre, requestData.AvatarURL, requestData.Telefono, requestData.Bio); err != nil {
		log.Printf("❌ Error al actualizar el perfil %s: %v", perfilID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar el perfil"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	perfil, err := db.GetPerfil(ctx, perfilID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener el perfil actualizado"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"perfil":  perfil,
	})
}

// SetUbicacion guarda la ubicación de referencia del usuario.
// Cada usuario tiene una sola ubicación: la nueva reemplaza la anterior.
func (s *PerfilService) SetUbicacion(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	perfilID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	var requestData struct {
		Lat   *float64 `json:"lat"`
		Lng   *float64 `json:"lng"`
		Texto *string  `json:"texto"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	if requestData.Lat == nil || requestData.Lng == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Latitud y longitud son obligatorias"})
	}

	if *requestData.Lat < -90 || *requestData.Lat > 90 || *requestData.Lng < -180 || *requestData.Lng > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Coordenadas fuera de rango"})
	}

	if err := db.SetUbicacion(perfilID, *requestData.Lat, *requestData.Lng, requestData.Texto); err != nil {
		log.Printf("❌ Error al guardar la ubicación del perfil %s: %v", perfilID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al guardar la ubicación"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ClearUbicacion elimina la ubicación guardada del usuario
func (s *PerfilService) ClearUbicacion(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	perfilID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	if err := db.ClearUbicacion(perfilID); err != nil {
		log.Printf("❌ Error al eliminar la ubicación del perfil %s: %v", perfilID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al eliminar la ubicación"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetPerfilPublico devuelve los datos públicos de cualquier perfil
func (s *PerfilService) GetPerfilPublico(c fiber.Ctx) error {
	perfilID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de perfil inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	perfil, err := db.GetPerfil(ctx, perfilID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Perfil no encontrado"})
	}

	// Campos de contacto solo visibles para el propio usuario
	perfil.Telefono = nil

	return c.JSON(fiber.Map{"perfil": perfil})
}
