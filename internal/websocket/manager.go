package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager representa el gestor central de todas las conexiones WebSocket
type Manager struct {
	clients      map[uuid.UUID]*Client
	clientsMutex sync.RWMutex
	userClients  map[string]map[uuid.UUID]bool // userID -> map[clientID]bool
	userMutex    sync.RWMutex
	ofertaSubs   map[int64]map[uuid.UUID]bool // ofertaID -> map[clientID]bool
	subsMutex    sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc

	// CanSubscribe autoriza la suscripción de un usuario al canal de una
	// oferta. Solo los dos participantes de la oferta pueden suscribirse.
	CanSubscribe func(userID string, ofertaID int64) bool
}

// EventType define el tipo de evento WebSocket
type EventType string

const (
	EventNuevoMensaje      EventType = "nuevo_mensaje"
	EventOfertaActualizada EventType = "oferta_actualizada"
	EventSuscrito          EventType = "suscrito"
	EventDesuscrito        EventType = "desuscrito"
	EventSubscribe         EventType = "subscribe"
	EventUnsubscribe       EventType = "unsubscribe"
)

// Event representa la estructura de un mensaje WebSocket
type Event struct {
	Type      EventType       `json:"type"`
	OfertaID  int64           `json:"oferta_id,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewManager crea una nueva instancia de Manager
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[string]map[uuid.UUID]bool),
		ofertaSubs:  make(map[int64]map[uuid.UUID]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// AddClient registra un nuevo cliente
func (m *Manager) AddClient(client *Client) {
	m.clientsMutex.Lock()
	m.clients[client.ID] = client
	m.clientsMutex.Unlock()

	// Asociamos el cliente con su usuario
	m.userMutex.Lock()
	if _, exists := m.userClients[client.UserID]; !exists {
		m.userClients[client.UserID] = make(map[uuid.UUID]bool)
	}
	m.userClients[client.UserID][client.ID] = true
	m.userMutex.Unlock()

	log.Printf("Cliente WebSocket %s conectado para el usuario %s", client.ID, client.UserID)
}

// RemoveClient da de baja un cliente y libera todas sus suscripciones.
// Es idempotente: la segunda llamada con el mismo ID no hace nada.
func (m *Manager) RemoveClient(clientID uuid.UUID) {
	m.clientsMutex.RLock()
	client, exists := m.clients[clientID]
	m.clientsMutex.RUnlock()

	if !exists {
		return
	}

	userID := client.UserID

	// Liberamos las suscripciones del cliente
	m.subsMutex.Lock()
	for ofertaID := range client.subs {
		if subs, ok := m.ofertaSubs[ofertaID]; ok {
			delete(subs, clientID)
			if len(subs) == 0 {
				delete(m.ofertaSubs, ofertaID)
			}
		}
	}
	client.subs = make(map[int64]bool)
	m.subsMutex.Unlock()

	// Quitamos el cliente de la asociación con el usuario
	m.userMutex.Lock()
	if clients, ok := m.userClients[userID]; ok {
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(m.userClients, userID)
		}
	}
	m.userMutex.Unlock()

	// Quitamos el cliente de la lista general
	m.clientsMutex.Lock()
	delete(m.clients, clientID)
	m.clientsMutex.Unlock()

	log.Printf("Cliente WebSocket %s desconectado para el usuario %s", clientID, userID)
}

// Subscribe suscribe un cliente a los eventos de una oferta
func (m *Manager) Subscribe(client *Client, ofertaID int64) bool {
	if m.CanSubscribe != nil && !m.CanSubscribe(client.UserID, ofertaID) {
		return false
	}

	m.subsMutex.Lock()
	if _, exists := m.ofertaSubs[ofertaID]; !exists {
		m.ofertaSubs[ofertaID] = make(map[uuid.UUID]bool)
	}
	m.ofertaSubs[ofertaID][client.ID] = true
	client.subs[ofertaID] = true
	m.subsMutex.Unlock()

	return true
}

// Unsubscribe da de baja la suscripción de un cliente a una oferta
func (m *Manager) Unsubscribe(client *Client, ofertaID int64) {
	m.subsMutex.Lock()
	if subs, ok := m.ofertaSubs[ofertaID]; ok {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(m.ofertaSubs, ofertaID)
		}
	}
	delete(client.subs, ofertaID)
	m.subsMutex.Unlock()
}

// Suscriptores devuelve el número de clientes suscritos a una oferta
func (m *Manager) Suscriptores(ofertaID int64) int {
	m.subsMutex.RLock()
	defer m.subsMutex.RUnlock()
	return len(m.ofertaSubs[ofertaID])
}

// SendToOferta envía un evento a todos los suscriptores de una oferta,
// excluyendo opcionalmente a un usuario (normalmente el emisor)
func (m *Manager) SendToOferta(ofertaID int64, event Event, excludeUserID string) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.OfertaID = ofertaID

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error al serializar el evento: %v", err)
		return
	}

	m.subsMutex.RLock()
	clientIDs := make([]uuid.UUID, 0, len(m.ofertaSubs[ofertaID]))
	for clientID := range m.ofertaSubs[ofertaID] {
		clientIDs = append(clientIDs, clientID)
	}
	m.subsMutex.RUnlock()

	for _, clientID := range clientIDs {
		m.clientsMutex.RLock()
		client, exists := m.clients[clientID]
		m.clientsMutex.RUnlock()

		if !exists || client.UserID == excludeUserID {
			continue
		}

		m.deliver(client, eventJSON)
	}
}

// SendToUser envía un evento a todas las conexiones de un usuario concreto
func (m *Manager) SendToUser(userID string, event Event) {
	if userID == "" {
		return
	}

	m.userMutex.RLock()
	clientIDs, exists := m.userClients[userID]
	m.userMutex.RUnlock()

	if !exists || len(clientIDs) == 0 {
		// El usuario no está en línea; el mensaje queda guardado en la base de datos
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error al serializar el evento: %v", err)
		return
	}

	for clientID := range clientIDs {
		m.clientsMutex.RLock()
		client, exists := m.clients[clientID]
		m.clientsMutex.RUnlock()

		if !exists {
			continue
		}

		m.deliver(client, eventJSON)
	}
}

// deliver encola el evento sin bloquear; un cliente demasiado lento se desconecta
func (m *Manager) deliver(client *Client, eventJSON []byte) {
	go func(c *Client) {
		select {
		case c.send <- eventJSON:
			// Evento encolado
		default:
			log.Printf("Canal de envío lleno para el cliente %s, cerrando la conexión", c.ID)
			if c.conn != nil {
				c.conn.Close()
			}
			m.RemoveClient(c.ID)
		}
	}(client)
}

// Shutdown termina ordenadamente el gestor de WebSocket
func (m *Manager) Shutdown() {
	m.cancel()

	m.clientsMutex.Lock()
	for _, client := range m.clients {
		if client.conn != nil {
			client.conn.Close()
		}
	}
	m.clients = make(map[uuid.UUID]*Client)
	m.clientsMutex.Unlock()

	m.userMutex.Lock()
	m.userClients = make(map[string]map[uuid.UUID]bool)
	m.userMutex.Unlock()

	m.subsMutex.Lock()
	m.ofertaSubs = make(map[int64]map[uuid.UUID]bool)
	m.subsMutex.Unlock()
}
