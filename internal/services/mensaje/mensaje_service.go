package mensaje

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/models"
	"github.com/truquelocal/truque-api/internal/utils"
	ws "github.com/truquelocal/truque-api/internal/websocket"
)

// MensajeService representa el servicio de mensajería de las ofertas
type MensajeService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	wsManager  *ws.Manager
}

// NewMensajeService crea una nueva instancia de MensajeService
func NewMensajeService(cfg *config.Config, wsManager *ws.Manager) *MensajeService {
	return &MensajeService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		wsManager:  wsManager,
	}
}

// ofertaParticipante carga la oferta y comprueba que el usuario participa en ella
func (s *MensajeService) ofertaParticipante(c fiber.Ctx, usuarioID uuid.UUID) (*models.Oferta, error) {
	ofertaID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de oferta inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var oferta models.Oferta
	err = db.Pool.QueryRow(ctx, `
        SELECT id, oferente_id, receptor_id, estado FROM ofertas WHERE id = $1
    `, ofertaID).Scan(&oferta.ID, &oferta.OferenteID, &oferta.ReceptorID, &oferta.Estado)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Oferta no encontrada"})
		}
		log.Printf("Error al consultar la oferta %d: %v", ofertaID, err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener la oferta"})
	}

	if oferta.OferenteID != usuarioID && oferta.ReceptorID != usuarioID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No participas en esta oferta"})
	}

	return &oferta, nil
}

// GetMensajes devuelve el historial de mensajes de una oferta en orden cronológico
func (s *MensajeService) GetMensajes(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	oferta, errResp := s.ofertaParticipante(c, usuarioID)
	if oferta == nil {
		return errResp
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT m.id, m.oferta_id, m.emisor_id, m.contenido, m.created_at
        FROM mensajes m
        WHERE m.oferta_id = $1
        ORDER BY m.created_at ASC, m.id ASC
    `, oferta.ID)

	if err != nil {
		log.Printf("Error al consultar los mensajes de la oferta %d: %v", oferta.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener los mensajes"})
	}
	defer rows.Close()

	mensajes := []models.Mensaje{}
	for rows.Next() {
		var msg models.Mensaje
		if err := rows.Scan(&msg.ID, &msg.OfertaID, &msg.EmisorID, &msg.Contenido, &msg.CreatedAt); err != nil {
			log.Printf("Error al escanear la fila de mensaje: %v", err)
			continue
		}
		msg.Emisor = db.GetPerfilResumen(ctx, msg.EmisorID)
		mensajes = append(mensajes, msg)
	}

	return c.JSON(fiber.Map{
		"mensajes": mensajes,
		"count":    len(mensajes),
	})
}

// SendMensaje guarda un mensaje en el chat de una oferta aceptada y lo
// reparte en tiempo real a los suscriptores conectados
func (s *MensajeService) SendMensaje(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	oferta, errResp := s.ofertaParticipante(c, usuarioID)
	if oferta == nil {
		return errResp
	}

	if !models.ChatDisponible(oferta.Estado) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "El chat no está disponible en esta oferta"})
	}

	var requestData struct {
		Contenido string `json:"contenido"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	// Un mensaje vacío o solo de espacios se ignora sin guardar nada
	if !models.ContenidoValido(requestData.Contenido) {
		return c.JSON(fiber.Map{
			"success":  true,
			"ignorado": true,
		})
	}

	contenido := strings.TrimSpace(requestData.Contenido)

	ctx, cancel := db.GetContext()
	defer cancel()

	var msg models.Mensaje
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO mensajes (oferta_id, emisor_id, contenido)
        VALUES ($1, $2, $3)
        RETURNING id, oferta_id, emisor_id, contenido, created_at
    `, oferta.ID, usuarioID, contenido).Scan(&msg.ID, &msg.OfertaID, &msg.EmisorID, &msg.Contenido, &msg.CreatedAt)

	if err != nil {
		log.Printf("❌ Error al guardar el mensaje en la oferta %d: %v", oferta.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al enviar el mensaje"})
	}

	msg.Emisor = db.GetPerfilResumen(ctx, msg.EmisorID)

	// Reparto en tiempo real: a los suscriptores del chat menos el emisor,
	// y al otro participante aunque no tenga el chat abierto
	if s.wsManager != nil {
		payload, _ := json.Marshal(msg)
		event := ws.Event{
			Type:      ws.EventNuevoMensaje,
			OfertaID:  oferta.ID,
			UserID:    usuarioID.String(),
			Timestamp: time.Now(),
			Payload:   payload,
		}

		s.wsManager.SendToOferta(oferta.ID, event, usuarioID.String())

		otro := oferta.OferenteID
		if usuarioID == oferta.OferenteID {
			otro = oferta.ReceptorID
		}
		if s.wsManager.Suscriptores(oferta.ID) == 0 {
			s.wsManager.SendToUser(otro.String(), event)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"mensaje": msg,
	})
}
