package valoracion

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/models"
	"github.com/truquelocal/truque-api/internal/utils"
)

// ValoracionService representa el servicio de valoraciones de intercambios
type ValoracionService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewValoracionService crea una nueva instancia de ValoracionService
func NewValoracionService(cfg *config.Config) *ValoracionService {
	return &ValoracionService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateValoracion registra la valoración de un intercambio completado
// y recalcula la reputación del usuario valorado
func (s *ValoracionService) CreateValoracion(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	evaluadorID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	ofertaID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de oferta inválido"})
	}

	var requestData struct {
		Puntuacion int    `json:"puntuacion"`
		Comentario string `json:"comentario"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	if !models.PuntuacionValida(requestData.Puntuacion) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "La puntuación debe estar entre 1 y 5"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var oferenteID, receptorID uuid.UUID
	var estado string
	err = db.Pool.QueryRow(ctx, `
        SELECT oferente_id, receptor_id, estado FROM ofertas WHERE id = $1
    `, ofertaID).Scan(&oferenteID, &receptorID, &estado)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Oferta no encontrada"})
		}
		log.Printf("Error al consultar la oferta %d: %v", ofertaID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener la oferta"})
	}

	if oferenteID != evaluadorID && receptorID != evaluadorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No participas en esta oferta"})
	}

	if estado != models.OfertaCompletada {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Solo se pueden valorar intercambios completados"})
	}

	// El valorado es el otro participante
	evaluadoID := oferenteID
	if evaluadorID == oferenteID {
		evaluadoID = receptorID
	}

	// Una valoración por participante y oferta
	var existentes int
	err = db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM valoraciones WHERE oferta_id = $1 AND evaluador_id = $2
    `, ofertaID, evaluadorID).Scan(&existentes)

	if err != nil {
		log.Printf("Error al comprobar valoraciones existentes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al comprobar valoraciones"})
	}

	if existentes > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Ya has valorado este intercambio"})
	}

	var comentario *string
	if texto := strings.TrimSpace(requestData.Comentario); texto != "" {
		comentario = &texto
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Error al iniciar la transacción: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error de base de datos"})
	}
	defer tx.Rollback(ctx)

	var valoracionID int64
	err = tx.QueryRow(ctx, `
        INSERT INTO valoraciones (oferta_id, evaluador_id, evaluado_id, puntuacion, comentario)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, ofertaID, evaluadorID, evaluadoID, requestData.Puntuacion, comentario).Scan(&valoracionID)

	if err != nil {
		log.Printf("❌ Error al crear la valoración: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al guardar la valoración"})
	}

	// La reputación del valorado se recalcula en la misma transacción
	if err := db.RecalcularReputacion(ctx, tx, evaluadoID); err != nil {
		log.Printf("❌ Error al recalcular la reputación de %s: %v", evaluadoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar la reputación"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Error al confirmar la transacción: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error de base de datos"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"valoracion_id": valoracionID,
	})
}

// GetValoracionesPerfil devuelve las valoraciones recibidas por un perfil
func (s *ValoracionService) GetValoracionesPerfil(c fiber.Ctx) error {
	perfilID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de perfil inválido"})
	}

	limite := 50
	if limStr := c.Query("limite"); limStr != "" {
		if lim, err := strconv.Atoi(limStr); err == nil && lim > 0 && lim < limite {
			limite = lim
		}
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT v.id, v.oferta_id, v.evaluador_id, v.evaluado_id, v.puntuacion, v.comentario, v.created_at
        FROM valoraciones v
        WHERE v.evaluado_id = $1
        ORDER BY v.created_at DESC
        LIMIT $2
    `, perfilID, limite)

	if err != nil {
		log.Printf("Error al consultar las valoraciones del perfil %s: %v", perfilID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener las valoraciones"})
	}
	defer rows.Close()

	valoraciones := []models.Valoracion{}
	for rows.Next() {
		var val models.Valoracion
		if err := rows.Scan(&val.ID, &val.OfertaID, &val.EvaluadorID, &val.EvaluadoID, &val.Puntuacion, &val.Comentario, &val.CreatedAt); err != nil {
			log.Printf("Error al escanear la fila de valoración: %v", err)
			continue
		}
		val.Evaluador = db.GetPerfilResumen(ctx, val.EvaluadorID)
		valoraciones = append(valoraciones, val)
	}

	return c.JSON(fiber.Map{
		"valoraciones": valoraciones,
		"count":        len(valoraciones),
	})
}
