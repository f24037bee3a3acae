package favorito

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/models"
	"github.com/truquelocal/truque-api/internal/utils"
)

// FavoritoService representa el servicio de objetos favoritos
type FavoritoService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewFavoritoService crea una nueva instancia de FavoritoService
func NewFavoritoService(cfg *config.Config) *FavoritoService {
	return &FavoritoService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// AddFavorito guarda un objeto en los favoritos del usuario
func (s *FavoritoService) AddFavorito(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	var requestData struct {
		ObjetoID int64 `json:"objeto_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Error al decodificar el cuerpo de la petición: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	if requestData.ObjetoID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Debes indicar el objeto"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM objetos WHERE id = $1 AND estado = 'disponible')
    `, requestData.ObjetoID).Scan(&exists)

	if err != nil {
		log.Printf("Error al comprobar el objeto %d: %v", requestData.ObjetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al comprobar el objeto"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Objeto no encontrado o no disponible"})
	}

	// El ON CONFLICT hace la operación idempotente
	_, err = db.Pool.Exec(ctx, `
        INSERT INTO favoritos (usuario_id, objeto_id)
        VALUES ($1, $2)
        ON CONFLICT (usuario_id, objeto_id) DO NOTHING
    `, usuarioID, requestData.ObjetoID)

	if err != nil {
		log.Printf("❌ Error al guardar el favorito: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al guardar el favorito"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// RemoveFavorito elimina un objeto de los favoritos del usuario
func (s *FavoritoService) RemoveFavorito(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	objetoID, err := strconv.ParseInt(c.Params("objetoId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de objeto inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	_, err = db.Pool.Exec(ctx, `
        DELETE FROM favoritos WHERE usuario_id = $1 AND objeto_id = $2
    `, usuarioID, objetoID)

	if err != nil {
		log.Printf("❌ Error al eliminar el favorito: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al eliminar el favorito"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetFavoritos devuelve los favoritos del usuario con los datos de cada objeto
func (s *FavoritoService) GetFavoritos(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT f.id, f.usuario_id, f.objeto_id, f.created_at,
               o.id, o.titulo, o.descripcion, o.condicion, o.imagenes,
               o.categoria_id, o.usuario_id, o.ubicacion_lat, o.ubicacion_lng,
               o.estado, o.destacado, o.created_at, o.updated_at
        FROM favoritos f
        JOIN objetos o ON o.id = f.objeto_id
        WHERE f.usuario_id = $1
        ORDER BY f.created_at DESC
    `, usuarioID)

	if err != nil {
		log.Printf("Error al consultar los favoritos del usuario %s: %v", usuarioID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener los favoritos"})
	}
	defer rows.Close()

	favoritos := []models.Favorito{}
	for rows.Next() {
		var fav models.Favorito
		var obj models.Objeto
		if err := rows.Scan(
			&fav.ID, &fav.UsuarioID, &fav.ObjetoID, &fav.CreatedAt,
			&obj.ID, &obj.Titulo, &obj.Descripcion, &obj.Condicion, &obj.Imagenes,
			&obj.CategoriaID, &obj.UsuarioID, &obj.UbicacionLat, &obj.UbicacionLng,
			&obj.Estado, &obj.Destacado, &obj.CreatedAt, &obj.UpdatedAt,
		); err != nil {
			log.Printf("Error al escanear la fila de favorito: %v", err)
			continue
		}
		obj.Usuario = db.GetPerfilResumen(ctx, obj.UsuarioID)
		fav.Objeto = &obj
		favoritos = append(favoritos, fav)
	}

	return c.JSON(fiber.Map{
		"favoritos": favoritos,
		"count":     len(favoritos),
	})
}
