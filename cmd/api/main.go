package main

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/services/auth"
	"github.com/truquelocal/truque-api/internal/services/categoria"
	"github.com/truquelocal/truque-api/internal/services/cloudinary"
	"github.com/truquelocal/truque-api/internal/services/favorito"
	"github.com/truquelocal/truque-api/internal/services/mensaje"
	"github.com/truquelocal/truque-api/internal/services/objeto"
	"github.com/truquelocal/truque-api/internal/services/oferta"
	"github.com/truquelocal/truque-api/internal/services/perfil"
	"github.com/truquelocal/truque-api/internal/services/valoracion"
	"github.com/truquelocal/truque-api/internal/utils"
	ws "github.com/truquelocal/truque-api/internal/websocket"
)

func main() {
	// Cargamos la configuración
	cfg := config.LoadConfig()

	// Inicializamos la base de datos
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Error al inicializar la base de datos: %v", err)
	}
	defer db.CloseDB()

	// Creamos la instancia de Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Truque Local API",
		ErrorHandler: errorHandler,
	})

	// Middleware global
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Gestor de WebSocket con autorización por oferta
	wsManager := ws.NewManager()
	wsManager.CanSubscribe = esParticipante
	defer wsManager.Shutdown()

	// Creamos los servicios
	authService := auth.NewAuthService(cfg)
	perfilService := perfil.NewPerfilService(cfg)
	categoriaService := categoria.NewCategoriaService(cfg)
	objetoService := objeto.NewObjetoService(cfg)
	ofertaService := oferta.NewOfertaService(cfg, wsManager)
	mensajeService := mensaje.NewMensajeService(cfg, wsManager)
	valoracionService := valoracion.NewValoracionService(cfg)
	favoritoService := favorito.NewFavoritoService(cfg)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)

	// Registramos las rutas
	authService.SetupRoutes(app)
	perfilService.SetupRoutes(app)
	categoriaService.SetupRoutes(app)
	objetoService.SetupRoutes(app)
	ofertaService.SetupRoutes(app)
	mensajeService.SetupRoutes(app)
	valoracionService.SetupRoutes(app)
	favoritoService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)

	// El WebSocket corre en su propio listener net/http: el upgrade de
	// gorilla/websocket necesita net/http y no funciona sobre fasthttp
	wsHandler := ws.NewHandler(wsManager, utils.NewJWTService(cfg.JWTSecret))
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/api/ws", wsHandler)
		log.Printf("✅ WebSocket escuchando en el puerto %s", cfg.WSPort)
		if err := http.ListenAndServe(":"+cfg.WSPort, mux); err != nil {
			log.Fatalf("❌ Error en el servidor WebSocket: %v", err)
		}
	}()

	// Arrancamos el servidor
	log.Printf("✅ Truque Local API escuchando en el puerto %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// esParticipante comprueba que el usuario forma parte de la oferta
// antes de permitirle suscribirse a su canal
func esParticipante(userID string, ofertaID int64) bool {
	usuarioID, err := uuid.Parse(userID)
	if err != nil {
		return false
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var oferenteID, receptorID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
        SELECT oferente_id, receptor_id FROM ofertas WHERE id = $1
    `, ofertaID).Scan(&oferenteID, &receptorID)

	if err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("Error al comprobar los participantes de la oferta %d: %v", ofertaID, err)
		}
		return false
	}

	return usuarioID == oferenteID || usuarioID == receptorID
}

// errorHandler gestiona los errores de Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
