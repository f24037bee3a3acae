package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/truquelocal/truque-api/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler autentica y actualiza las conexiones WebSocket entrantes.
// El navegador no puede mandar cabeceras en el handshake, así que el
// token JWT llega como parámetro de consulta.
type Handler struct {
	manager    *Manager
	jwtService *utils.JWTService
}

// NewHandler crea un nuevo Handler de WebSocket
func NewHandler(manager *Manager, jwtService *utils.JWTService) *Handler {
	return &Handler{
		manager:    manager,
		jwtService: jwtService,
	}
}

// ServeHTTP implementa http.Handler para la ruta /api/ws
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token no proporcionado", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ExtractUserID(token)
	if err != nil {
		http.Error(w, "Token inválido", http.StatusUnauthorized)
		return
	}

	if _, err := uuid.Parse(userID); err != nil {
		http.Error(w, "Token inválido", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error al actualizar la conexión WebSocket: %v", err)
		return
	}

	client := NewClient(userID, conn, h.manager)
	h.manager.AddClient(client)

	go client.WritePump()
	go client.ReadPump()
}
