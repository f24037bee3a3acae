package oferta

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

// OfertaService representa el servicio de ofertas de trueque
type OfertaService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	wsManager  *ws.Manager
}

// NewOfertaService crea una nueva instancia de OfertaService
func NewOfertaService(cfg *config.Config, wsManager *ws.Manager) *OfertaService {
	return &OfertaService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		wsManager:  wsManager,
	}
}

// CreateOferta crea una nueva propuesta de trueque
func (s *OfertaService) CreateOferta(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	oferenteID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	var requestData struct {
		ObjetoOferenteID int64  `json:"objeto_oferente_id"`
		ObjetoReceptorID int64  `json:"objeto_receptor_id"`
		Mensaje          string `json:"mensaje"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Error al decodificar el cuerpo de la petición: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	if requestData.ObjetoOferenteID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Selecciona uno de tus objetos para ofrecer"})
	}

	if requestData.ObjetoReceptorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Debes indicar el objeto que quieres recibir"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Comprobamos que el objeto ofrecido pertenece al oferente y está disponible
	var objOferenteOwner uuid.UUID
	var objOferenteEstado string
	err = db.Pool.QueryRow(ctx, `
        SELECT usuario_id, estado FROM objetos WHERE id = $1
    `, requestData.ObjetoOferenteID).Scan(&objOferenteOwner, &objOferenteEstado)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "El objeto ofrecido no existe"})
		}
		log.Printf("Error al consultar el objeto ofrecido: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al comprobar el objeto"})
	}

	if objOferenteOwner != oferenteID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No puedes ofrecer un objeto que no es tuyo"})
	}

	if objOferenteEstado != models.EstadoDisponible {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "El objeto ofrecido no está disponible"})
	}

	// Comprobamos el objeto solicitado y obtenemos su propietario
	var receptorID uuid.UUID
	var objReceptorEstado string
	err = db.Pool.QueryRow(ctx, `
        SELECT usuario_id, estado FROM objetos WHERE id = $1
    `, requestData.ObjetoReceptorID).Scan(&receptorID, &objReceptorEstado)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "El objeto solicitado no existe"})
		}
		log.Printf("Error al consultar el objeto solicitado: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al comprobar el objeto"})
	}

	if receptorID == oferenteID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No puedes proponerte un trueque a ti mismo"})
	}

	if objReceptorEstado != models.EstadoDisponible {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "El objeto solicitado no está disponible"})
	}

	// Evitamos ofertas pendientes duplicadas sobre el mismo par de objetos
	var existentes int
	err = db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM ofertas
        WHERE objeto_oferente_id = $1 AND objeto_receptor_id = $2 AND estado = 'pendiente'
    `, requestData.ObjetoOferenteID, requestData.ObjetoReceptorID).Scan(&existentes)

	if err != nil {
		log.Printf("Error al comprobar ofertas existentes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al comprobar ofertas existentes"})
	}

	if existentes > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Ya existe una oferta pendiente con estos objetos"})
	}

	var mensaje *string
	if texto := strings.TrimSpace(requestData.Mensaje); texto != "" {
		mensaje = &texto
	}

	var ofertaID int64
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO ofertas (objeto_oferente_id, objeto_receptor_id, oferente_id, receptor_id, estado, mensaje)
        VALUES ($1, $2, $3, $4, 'pendiente', $5)
        RETURNING id
    `, requestData.ObjetoOferenteID, requestData.ObjetoReceptorID, oferenteID, receptorID, mensaje).Scan(&ofertaID)

	if err != nil {
		log.Printf("❌ Error al crear la oferta: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al crear la oferta"})
	}

	log.Printf("✅ Oferta %d creada: %s ofrece el objeto %d por el %d", ofertaID, oferenteID, requestData.ObjetoOferenteID, requestData.ObjetoReceptorID)

	// Avisamos al receptor si está conectado
	s.notifyOferta(ofertaID, receptorID.String(), models.OfertaPendiente)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"oferta_id": ofertaID,
		"message":   "Oferta enviada correctamente",
	})
}

// GetMisOfertas devuelve las ofertas del usuario, recibidas o enviadas
func (s *OfertaService) GetMisOfertas(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	tipo := c.Query("tipo", "todas") // todas, recibidas, enviadas
	estado := c.Query("estado", "todas")

	if estado != "todas" && !models.EstadoOfertaValido(estado) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Estado de oferta inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var query string
	var args []interface{}

	base := `
        SELECT o.id, o.objeto_oferente_id, o.objeto_receptor_id, o.oferente_id, o.receptor_id,
               o.mensaje, o.estado, o.respuesta, o.created_at, o.updated_at
        FROM ofertas o
    `

	switch tipo {
	case "recibidas":
		query = base + ` WHERE o.receptor_id = $1`
		args = []interface{}{usuarioID}
	case "enviadas":
		query = base + ` WHERE o.oferente_id = $1`
		args = []interface{}{usuarioID}
	default:
		query = base + ` WHERE o.oferente_id = $1 OR o.receptor_id = $1`
		args = []interface{}{usuarioID}
	}

	if estado != "todas" {
		query += ` AND o.estado = $2`
		args = append(args, estado)
	}

	query += ` ORDER BY o.created_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error al consultar las ofertas: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener las ofertas"})
	}
	defer rows.Close()

	var ofertas []models.Oferta
	for rows.Next() {
		var oferta models.Oferta
		if err := rows.Scan(
			&oferta.ID, &oferta.ObjetoOferenteID, &oferta.ObjetoReceptorID,
			&oferta.OferenteID, &oferta.ReceptorID, &oferta.Mensaje,
			&oferta.Estado, &oferta.Respuesta, &oferta.CreatedAt, &oferta.UpdatedAt,
		); err != nil {
			log.Printf("Error al escanear la fila de oferta: %v", err)
			continue
		}

		oferta.ObjetoOferente = s.getObjetoInfo(oferta.ObjetoOferenteID)
		oferta.ObjetoReceptor = s.getObjetoInfo(oferta.ObjetoReceptorID)
		oferta.Oferente = db.GetPerfilResumen(ctx, oferta.OferenteID)
		oferta.Receptor = db.GetPerfilResumen(ctx, oferta.ReceptorID)

		ofertas = append(ofertas, oferta)
	}

	return c.JSON(fiber.Map{
		"ofertas": ofertas,
		"count":   len(ofertas),
	})
}

// GetOferta devuelve el detalle de una oferta para sus participantes
func (s *OfertaService) GetOferta(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	ofertaID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de oferta inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var oferta models.Oferta
	err = db.Pool.QueryRow(ctx, `
        SELECT o.id, o.objeto_oferente_id, o.objeto_receptor_id, o.oferente_id, o.receptor_id,
               o.mensaje, o.estado, o.respuesta, o.created_at, o.updated_at
        FROM ofertas o WHERE o.id = $1
    `, ofertaID).Scan(
		&oferta.ID, &oferta.ObjetoOferenteID, &oferta.ObjetoReceptorID,
		&oferta.OferenteID, &oferta.ReceptorID, &oferta.Mensaje,
		&oferta.Estado, &oferta.Respuesta, &oferta.CreatedAt, &oferta.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Oferta no encontrada"})
		}
		log.Printf("Error al consultar la oferta %d: %v", ofertaID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener la oferta"})
	}

	if oferta.OferenteID != usuarioID && oferta.ReceptorID != usuarioID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No participas en esta oferta"})
	}

	oferta.ObjetoOferente = s.getObjetoInfo(oferta.ObjetoOferenteID)
	oferta.ObjetoReceptor = s.getObjetoInfo(oferta.ObjetoReceptorID)
	oferta.Oferente = db.GetPerfilResumen(ctx, oferta.OferenteID)
	oferta.Receptor = db.GetPerfilResumen(ctx, oferta.ReceptorID)

	return c.JSON(fiber.Map{"oferta": oferta})
}

// UpdateEstadoOferta aplica una transición de la máquina de estados de la oferta.
// El receptor puede aceptar o rechazar; el oferente puede cancelar; cualquiera
// de los dos puede marcarla como completada una vez aceptada.
func (s *OfertaService) UpdateEstadoOferta(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	ofertaID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de oferta inválido"})
	}

	var requestData struct {
		Estado    string `json:"estado"`
		Respuesta string `json:"respuesta"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	if !models.EstadoOfertaValido(requestData.Estado) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Estado de oferta inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Error al iniciar la transacción: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error de base de datos"})
	}
	defer tx.Rollback(ctx)

	// Bloqueamos la fila para que dos transiciones simultáneas no se pisen
	var oferta models.Oferta
	err = tx.QueryRow(ctx, `
        SELECT id, objeto_oferente_id, objeto_receptor_id, oferente_id, receptor_id, estado
        FROM ofertas WHERE id = $1
        FOR UPDATE
    `, ofertaID).Scan(
		&oferta.ID, &oferta.ObjetoOferenteID, &oferta.ObjetoReceptorID,
		&oferta.OferenteID, &oferta.ReceptorID, &oferta.Estado,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Oferta no encontrada"})
		}
		log.Printf("Error al consultar la oferta %d: %v", ofertaID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener la oferta"})
	}

	if oferta.OferenteID != usuarioID && oferta.ReceptorID != usuarioID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No participas en esta oferta"})
	}

	// Comprobación de rol según la transición solicitada
	switch requestData.Estado {
	case models.OfertaAceptada, models.OfertaRechazada:
		if oferta.ReceptorID != usuarioID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Solo el receptor puede aceptar o rechazar la oferta"})
		}
	case models.OfertaCancelada:
		if oferta.OferenteID != usuarioID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Solo el oferente puede cancelar la oferta"})
		}
	case models.OfertaCompletada:
		// Cualquiera de los dos participantes puede confirmar la entrega
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Estado de oferta inválido"})
	}

	if !models.TransicionOfertaValida(oferta.Estado, requestData.Estado) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":         "La oferta ya no admite esta transición",
			"estado_actual": oferta.Estado,
		})
	}

	var respuesta *string
	if texto := strings.TrimSpace(requestData.Respuesta); texto != "" {
		respuesta = &texto
	}

	_, err = tx.Exec(ctx, `
        UPDATE ofertas SET estado = $1, respuesta = COALESCE($2, respuesta), updated_at = NOW()
        WHERE id = $3
    `, requestData.Estado, respuesta, ofertaID)

	if err != nil {
		log.Printf("❌ Error al actualizar la oferta %d: %v", ofertaID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar la oferta"})
	}

	switch requestData.Estado {
	case models.OfertaAceptada:
		// Bloqueamos también las filas de los dos objetos y comprobamos
		// su disponibilidad ya con el bloqueo tomado: otra aceptación
		// simultánea sobre cualquiera de ellos podría haberlos reservado.
		// El ORDER BY id fija el orden de bloqueo entre transacciones.
		objRows, err := tx.Query(ctx, `
            SELECT estado FROM objetos WHERE id IN ($1, $2) ORDER BY id FOR UPDATE
        `, oferta.ObjetoOferenteID, oferta.ObjetoReceptorID)
		if err != nil {
			log.Printf("❌ Error al bloquear los objetos de la oferta %d: %v", ofertaID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar la oferta"})
		}

		var estados []string
		for objRows.Next() {
			var estadoObjeto string
			if err := objRows.Scan(&estadoObjeto); err != nil {
				objRows.Close()
				log.Printf("❌ Error al escanear el estado de un objeto: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar la oferta"})
			}
			estados = append(estados, estadoObjeto)
		}
		objRows.Close()

		if len(estados) != 2 || estados[0] != models.EstadoDisponible || estados[1] != models.EstadoDisponible {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Alguno de los objetos ya no está disponible"})
		}

		// Aceptar reserva ambos objetos en la misma transacción: o se
		// actualizan la oferta y los dos objetos, o nada.
		_, err = tx.Exec(ctx, `
            UPDATE objetos SET estado = 'en_trueque', updated_at = NOW()
            WHERE id IN ($1, $2)
        `, oferta.ObjetoOferenteID, oferta.ObjetoReceptorID)
		if err != nil {
			log.Printf("❌ Error al reservar los objetos de la oferta %d: %v", ofertaID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar la oferta"})
		}

		// Las demás ofertas pendientes sobre estos objetos quedan canceladas
		_, err = tx.Exec(ctx, `
            UPDATE ofertas SET estado = 'cancelada', updated_at = NOW()
            WHERE id <> $1 AND estado = 'pendiente'
              AND (objeto_oferente_id IN ($2, $3) OR objeto_receptor_id IN ($2, $3))
        `, ofertaID, oferta.ObjetoOferenteID, oferta.ObjetoReceptorID)
		if err != nil {
			log.Printf("❌ Error al cancelar las ofertas en conflicto: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar la oferta"})
		}

	case models.OfertaRechazada, models.OfertaCancelada:
		// Si la oferta estaba pendiente los objetos siguen disponibles,
		// no hay nada más que hacer

	case models.OfertaCompletada:
		// Completar solo cierra la oferta. La reputación y los
		// contadores del perfil se actualizan con la valoración del
		// intercambio, no aquí.
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Error al confirmar la transacción: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error de base de datos"})
	}

	log.Printf("✅ Oferta %d: %s -> %s por el usuario %s", ofertaID, oferta.Estado, requestData.Estado, usuarioID)

	// Avisamos al otro participante
	otro := oferta.OferenteID
	if usuarioID == oferta.OferenteID {
		otro = oferta.ReceptorID
	}
	s.notifyOferta(ofertaID, otro.String(), requestData.Estado)

	return c.JSON(fiber.Map{
		"success": true,
		"estado":  requestData.Estado,
		"message": "Oferta actualizada correctamente",
	})
}

// getObjetoInfo carga los datos básicos de un objeto; devuelve nil si falla
func (s *OfertaService) getObjetoInfo(objetoID int64) *models.Objeto {
	ctx, cancel := db.GetContext()
	defer cancel()

	var obj models.Objeto
	err := db.Pool.QueryRow(ctx, `
        SELECT id, titulo, descripcion, condicion, imagenes, categoria_id, usuario_id,
               ubicacion_lat, ubicacion_lng, estado, destacado, created_at, updated_at
        FROM objetos WHERE id = $1
    `, objetoID).Scan(
		&obj.ID, &obj.Titulo, &obj.Descripcion, &obj.Condicion, &obj.Imagenes,
		&obj.CategoriaID, &obj.UsuarioID, &obj.UbicacionLat, &obj.UbicacionLng,
		&obj.Estado, &obj.Destacado, &obj.CreatedAt, &obj.UpdatedAt,
	)
	if err != nil {
		return nil
	}
	return &obj
}

// notifyOferta publica el evento de cambio de oferta por WebSocket
func (s *OfertaService) notifyOferta(ofertaID int64, destinatarioID, estado string) {
	if s.wsManager == nil {
		return
	}

	payload, _ := json.Marshal(fiber.Map{"estado": estado})
	event := ws.Event{
		Type:      ws.EventOfertaActualizada,
		OfertaID:  ofertaID,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	s.wsManager.SendToOferta(ofertaID, event, "")
	s.wsManager.SendToUser(destinatarioID, event)
}
