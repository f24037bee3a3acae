package objeto

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/geo"
	"github.com/truquelocal/truque-api/internal/models"
	"github.com/truquelocal/truque-api/internal/utils"
)

const (
	radioPorDefectoKm = 10.0
	radioMinimoKm     = 1.0
	radioMaximoKm     = 50.0
)

// ObjetoService representa el servicio de objetos publicados
type ObjetoService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewObjetoService crea una nueva instancia de ObjetoService
func NewObjetoService(cfg *config.Config) *ObjetoService {
	return &ObjetoService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateObjeto publica un nuevo objeto. Valida los tres pasos del
// asistente de publicación en el servidor, aunque el cliente ya los
// haya validado.
func (s *ObjetoService) CreateObjeto(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	var requestData struct {
		Titulo       string   `json:"titulo"`
		Descripcion  string   `json:"descripcion"`
		Condicion    string   `json:"condicion"`
		CategoriaID  int      `json:"categoria_id"`
		Imagenes     []string `json:"imagenes"`
		UbicacionLat *float64 `json:"ubicacion_lat"`
		UbicacionLng *float64 `json:"ubicacion_lng"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Error al decodificar el cuerpo de la petición: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	borrador := models.BorradorPublicacion{
		Titulo:       requestData.Titulo,
		Descripcion:  requestData.Descripcion,
		Condicion:    requestData.Condicion,
		CategoriaID:  requestData.CategoriaID,
		UbicacionLat: requestData.UbicacionLat,
		UbicacionLng: requestData.UbicacionLng,
	}

	for _, url := range requestData.Imagenes {
		if err := borrador.AgregarImagen(url); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if !borrador.PuedeAvanzar(1) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Título, descripción, condición y categoría son obligatorios"})
	}
	if !borrador.PuedeAvanzar(2) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Debes añadir al menos una imagen"})
	}
	if !borrador.PuedeAvanzar(3) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "La ubicación del objeto es obligatoria"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var objetoID int64
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO objetos (titulo, descripcion, condicion, categoria_id, usuario_id, imagenes, ubicacion_lat, ubicacion_lng, estado)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'disponible')
        RETURNING id
    `, strings.TrimSpace(borrador.Titulo), strings.TrimSpace(borrador.Descripcion), borrador.Condicion,
		borrador.CategoriaID, usuarioID, borrador.Imagenes, borrador.UbicacionLat, borrador.UbicacionLng).Scan(&objetoID)

	if err != nil {
		log.Printf("❌ Error al crear el objeto: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al publicar el objeto"})
	}

	log.Printf("✅ Objeto %d publicado por el usuario %s", objetoID, usuarioID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"objeto_id": objetoID,
		"message":   "Objeto publicado correctamente",
	})
}

// GetObjetosCercanos busca objetos disponibles dentro de un radio alrededor
// de un punto de referencia, ordenados por distancia ascendente
func (s *ObjetoService) GetObjetosCercanos(c fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parámetro lat inválido"})
	}

	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parámetro lng inválido"})
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Coordenadas fuera de rango"})
	}

	radio := radioPorDefectoKm
	if radioStr := c.Query("radio"); radioStr != "" {
		radio, err = strconv.ParseFloat(radioStr, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parámetro radio inválido"})
		}
	}
	// El radio se acota al rango permitido en lugar de rechazarse
	if radio < radioMinimoKm {
		radio = radioMinimoKm
	}
	if radio > radioMaximoKm {
		radio = radioMaximoKm
	}

	var categoriaID int
	if catStr := c.Query("categoria"); catStr != "" {
		categoriaID, err = strconv.Atoi(catStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parámetro categoria inválido"})
		}
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Distancia Haversine calculada en la base de datos.
	// LEAST protege acos de errores de redondeo en puntos casi idénticos.
	rows, err := db.Pool.Query(ctx, `
        SELECT * FROM (
            SELECT o.id, o.titulo, o.descripcion, o.condicion, o.imagenes,
                   o.categoria_id, o.usuario_id, o.ubicacion_lat, o.ubicacion_lng,
                   o.estado, o.destacado, o.created_at, o.updated_at,
                   6371 * acos(LEAST(1.0,
                       cos(radians($1)) * cos(radians(o.ubicacion_lat)) *
                       cos(radians(o.ubicacion_lng) - radians($2)) +
                       sin(radians($1)) * sin(radians(o.ubicacion_lat))
                   )) AS distancia_km
            FROM objetos o
            WHERE o.estado = 'disponible'
              AND o.ubicacion_lat IS NOT NULL
              AND o.ubicacion_lng IS NOT NULL
              AND ($3 = 0 OR o.categoria_id = $3)
        ) sub
        WHERE sub.distancia_km <= $4
        ORDER BY sub.distancia_km ASC
    `, lat, lng, categoriaID, radio)

	if err != nil {
		log.Printf("Error en la búsqueda de objetos cercanos: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al buscar objetos cercanos"})
	}
	defer rows.Close()

	objetos := s.scanObjetos(rows, true)
	objetos = anotarDistancias(objetos, geo.Punto{Lat: lat, Lng: lng}, radio)

	return c.JSON(fiber.Map{
		"objetos":  objetos,
		"count":    len(objetos),
		"radio_km": radio,
	})
}

// GetObjetos devuelve los objetos disponibles sin filtro de proximidad.
// Es el listado de respaldo para usuarios sin ubicación configurada.
func (s *ObjetoService) GetObjetos(c fiber.Ctx) error {
	var categoriaID int
	var err error
	if catStr := c.Query("categoria"); catStr != "" {
		categoriaID, err = strconv.Atoi(catStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parámetro categoria inválido"})
		}
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT o.id, o.titulo, o.descripcion, o.condicion, o.imagenes,
               o.categoria_id, o.usuario_id, o.ubicacion_lat, o.ubicacion_lng,
               o.estado, o.destacado, o.created_at, o.updated_at
        FROM objetos o
        WHERE o.estado = 'disponible'
          AND ($1 = 0 OR o.categoria_id = $1)
        ORDER BY o.created_at DESC
    `, categoriaID)

	if err != nil {
		log.Printf("Error al consultar los objetos: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener los objetos"})
	}
	defer rows.Close()

	objetos := s.scanObjetos(rows, false)

	// El filtro de texto se aplica sobre el conjunto ya cargado
	objetos = models.FiltrarObjetosPorTexto(objetos, strings.TrimSpace(c.Query("q")))

	return c.JSON(fiber.Map{
		"objetos": objetos,
		"count":   len(objetos),
	})
}

// GetMisObjetos devuelve todos los objetos del usuario autenticado,
// en cualquier estado
func (s *ObjetoService) GetMisObjetos(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT o.id, o.titulo, o.descripcion, o.condicion, o.imagenes,
               o.categoria_id, o.usuario_id, o.ubicacion_lat, o.ubicacion_lng,
               o.estado, o.destacado, o.created_at, o.updated_at
        FROM objetos o
        WHERE o.usuario_id = $1
        ORDER BY o.created_at DESC
    `, usuarioID)

	if err != nil {
		log.Printf("Error al consultar los objetos del usuario %s: %v", usuarioID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener tus objetos"})
	}
	defer rows.Close()

	objetos := s.scanObjetos(rows, false)

	return c.JSON(fiber.Map{
		"objetos": objetos,
		"count":   len(objetos),
	})
}

// GetObjeto devuelve el detalle de un objeto con su categoría y propietario
func (s *ObjetoService) GetObjeto(c fiber.Ctx) error {
	objetoID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de objeto inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var obj models.Objeto
	err = db.Pool.QueryRow(ctx, `
        SELECT o.id, o.titulo, o.descripcion, o.condicion, o.imagenes,
               o.categoria_id, o.usuario_id, o.ubicacion_lat, o.ubicacion_lng,
               o.estado, o.destacado, o.created_at, o.updated_at
        FROM objetos o
        WHERE o.id = $1
    `, objetoID).Scan(
		&obj.ID, &obj.Titulo, &obj.Descripcion, &obj.Condicion, &obj.Imagenes,
		&obj.CategoriaID, &obj.UsuarioID, &obj.UbicacionLat, &obj.UbicacionLng,
		&obj.Estado, &obj.Destacado, &obj.CreatedAt, &obj.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Objeto no encontrado"})
		}
		log.Printf("Error al consultar el objeto %d: %v", objetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener el objeto"})
	}

	obj.Categoria = s.getCategoriaInfo(ctx, obj.CategoriaID)
	obj.Usuario = db.GetPerfilResumen(ctx, obj.UsuarioID)

	return c.JSON(fiber.Map{"objeto": obj})
}

// UpdateObjeto actualiza un objeto del usuario autenticado
func (s *ObjetoService) UpdateObjeto(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	objetoID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de objeto inválido"})
	}

	var requestData struct {
		Titulo       string   `json:"titulo"`
		Descripcion  string   `json:"descripcion"`
		Condicion    string   `json:"condicion"`
		CategoriaID  int      `json:"categoria_id"`
		Imagenes     []string `json:"imagenes"`
		UbicacionLat *float64 `json:"ubicacion_lat"`
		UbicacionLng *float64 `json:"ubicacion_lng"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	if !models.CondicionValida(requestData.Condicion) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Condición inválida"})
	}

	if len(requestData.Imagenes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Debes añadir al menos una imagen"})
	}

	if len(requestData.Imagenes) > models.MaxImagenes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": models.ErrMaxImagenes.Error()})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var propietarioID uuid.UUID
	var estado string
	err = db.Pool.QueryRow(ctx, `
        SELECT usuario_id, estado FROM objetos WHERE id = $1
    `, objetoID).Scan(&propietarioID, &estado)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Objeto no encontrado"})
		}
		log.Printf("Error al consultar el objeto %d: %v", objetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener el objeto"})
	}

	if propietarioID != usuarioID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Este objeto no te pertenece"})
	}

	if estado == models.EstadoEnTrueque {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No puedes editar un objeto con un trueque en curso"})
	}

	_, err = db.Pool.Exec(ctx, `
        UPDATE objetos
        SET titulo = $1, descripcion = $2, condicion = $3, categoria_id = $4,
            imagenes = $5, ubicacion_lat = $6, ubicacion_lng = $7, updated_at = NOW()
        WHERE id = $8
    `, strings.TrimSpace(requestData.Titulo), strings.TrimSpace(requestData.Descripcion), requestData.Condicion,
		requestData.CategoriaID, requestData.Imagenes, requestData.UbicacionLat, requestData.UbicacionLng, objetoID)

	if err != nil {
		log.Printf("❌ Error al actualizar el objeto %d: %v", objetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar el objeto"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Objeto actualizado correctamente",
	})
}

// DeleteObjeto elimina un objeto del usuario autenticado
func (s *ObjetoService) DeleteObjeto(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de usuario inválido"})
	}

	objetoID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de ID de objeto inválido"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var propietarioID uuid.UUID
	var estado string
	err = db.Pool.QueryRow(ctx, `
        SELECT usuario_id, estado FROM objetos WHERE id = $1
    `, objetoID).Scan(&propietarioID, &estado)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Objeto no encontrado"})
		}
		log.Printf("Error al consultar el objeto %d: %v", objetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al obtener el objeto"})
	}

	if propietarioID != usuarioID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Este objeto no te pertenece"})
	}

	if estado == models.EstadoEnTrueque {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No puedes eliminar un objeto con un trueque en curso"})
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Error al iniciar la transacción: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error de base de datos"})
	}
	defer tx.Rollback(ctx)

	// Las ofertas pendientes sobre este objeto dejan de tener sentido
	_, err = tx.Exec(ctx, `
        UPDATE ofertas SET estado = 'cancelada', updated_at = NOW()
        WHERE (objeto_oferente_id = $1 OR objeto_receptor_id = $1) AND estado = 'pendiente'
    `, objetoID)
	if err != nil {
		log.Printf("❌ Error al cancelar las ofertas del objeto %d: %v", objetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al eliminar el objeto"})
	}

	_, err = tx.Exec(ctx, `DELETE FROM favoritos WHERE objeto_id = $1`, objetoID)
	if err != nil {
		log.Printf("❌ Error al limpiar los favoritos del objeto %d: %v", objetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al eliminar el objeto"})
	}

	_, err = tx.Exec(ctx, `DELETE FROM objetos WHERE id = $1`, objetoID)
	if err != nil {
		log.Printf("❌ Error al eliminar el objeto %d: %v", objetoID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al eliminar el objeto"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Error al confirmar la transacción: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error de base de datos"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Objeto eliminado correctamente",
	})
}

// scanObjetos recorre las filas y carga los datos del propietario de cada objeto
func (s *ObjetoService) scanObjetos(rows pgx.Rows, conDistancia bool) []models.Objeto {
	objetos := []models.Objeto{}
	for rows.Next() {
		var obj models.Objeto
		dest := []interface{}{
			&obj.ID, &obj.Titulo, &obj.Descripcion, &obj.Condicion, &obj.Imagenes,
			&obj.CategoriaID, &obj.UsuarioID, &obj.UbicacionLat, &obj.UbicacionLng,
			&obj.Estado, &obj.Destacado, &obj.CreatedAt, &obj.UpdatedAt,
		}
		if conDistancia {
			dest = append(dest, &obj.DistanciaKm)
		}
		if err := rows.Scan(dest...); err != nil {
			log.Printf("Error al escanear la fila de objeto: %v", err)
			continue
		}
		objetos = append(objetos, obj)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	for i := range objetos {
		objetos[i].Usuario = db.GetPerfilResumen(ctx, objetos[i].UsuarioID)
		objetos[i].Categoria = s.getCategoriaInfo(ctx, objetos[i].CategoriaID)
	}

	return objetos
}

// getCategoriaInfo carga los datos de una categoría; devuelve nil si falla
func (s *ObjetoService) getCategoriaInfo(ctx context.Context, categoriaID int) *models.Categoria {
	var cat models.Categoria
	err := db.Pool.QueryRow(ctx, `
        SELECT id, nombre, slug, descripcion, icono, color, orden
        FROM categorias WHERE id = $1
    `, categoriaID).Scan(&cat.ID, &cat.Nombre, &cat.Slug, &cat.Descripcion, &cat.Icono, &cat.Color, &cat.Orden)
	if err != nil {
		return nil
	}
	return &cat
}
