package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Tiempo máximo de escritura
	writeWait = 10 * time.Second

	// Tiempo máximo de espera del pong del cliente
	pongWait = 60 * time.Second

	// Período entre pings, debe ser menor que pongWait
	pingPeriod = (pongWait * 9) / 10

	// Tamaño máximo de un mensaje entrante
	maxMessageSize = 512 * 1024
)

// Client representa una conexión WebSocket de un usuario
type Client struct {
	ID      uuid.UUID
	UserID  string
	conn    *websocket.Conn
	manager *Manager
	send    chan []byte
	subs    map[int64]bool
}

// NewClient crea un nuevo cliente WebSocket
func NewClient(userID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:      uuid.New(),
		UserID:  userID,
		conn:    conn,
		manager: manager,
		send:    make(chan []byte, 256),
		subs:    make(map[int64]bool),
	}
}

// clientRequest es la estructura de los comandos que envía el cliente
type clientRequest struct {
	Type     EventType `json:"type"`
	OfertaID int64     `json:"oferta_id"`
}

// ReadPump lee los comandos entrantes del cliente (suscripciones) y
// mantiene viva la conexión respondiendo a los pongs
func (c *Client) ReadPump() {
	defer func() {
		c.manager.RemoveClient(c.ID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error de lectura WebSocket: %v", err)
			}
			break
		}

		var req clientRequest
		if err := json.Unmarshal(message, &req); err != nil {
			log.Printf("Comando WebSocket inválido del usuario %s: %v", c.UserID, err)
			continue
		}

		switch req.Type {
		case EventSubscribe:
			if c.manager.Subscribe(c, req.OfertaID) {
				c.sendEvent(Event{Type: EventSuscrito, OfertaID: req.OfertaID, Timestamp: time.Now()})
			}
		case EventUnsubscribe:
			c.manager.Unsubscribe(c, req.OfertaID)
			c.sendEvent(Event{Type: EventDesuscrito, OfertaID: req.OfertaID, Timestamp: time.Now()})
		}
	}
}

// WritePump envía los eventos encolados al cliente y emite pings periódicos
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendEvent(event Event) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- eventJSON:
	default:
	}
}
