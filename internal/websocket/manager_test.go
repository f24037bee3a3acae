package websocket

import (
	"testing"
	"time"
)

func esperar() <-chan time.Time {
	return time.After(200 * time.Millisecond)
}

func nuevoClientePrueba(m *Manager, userID string) *Client {
	c := NewClient(userID, nil, m)
	m.AddClient(c)
	return c
}

func TestAddRemoveClient(t *testing.T) {
	m := NewManager()

	c := nuevoClientePrueba(m, "usuario-1")
	if len(m.clients) != 1 {
		t.Fatalf("clientes registrados = %d, se esperaba 1", len(m.clients))
	}
	if len(m.userClients["usuario-1"]) != 1 {
		t.Fatalf("conexiones del usuario = %d, se esperaba 1", len(m.userClients["usuario-1"]))
	}

	m.RemoveClient(c.ID)
	if len(m.clients) != 0 {
		t.Fatalf("clientes tras la baja = %d, se esperaba 0", len(m.clients))
	}
	if _, existe := m.userClients["usuario-1"]; existe {
		t.Fatal("la entrada del usuario debe eliminarse con su última conexión")
	}

	// La baja repetida no debe hacer nada
	m.RemoveClient(c.ID)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	m := NewManager()
	c := nuevoClientePrueba(m, "usuario-1")

	if !m.Subscribe(c, 42) {
		t.Fatal("Subscribe sin CanSubscribe configurado debe permitirse")
	}
	if m.Suscriptores(42) != 1 {
		t.Fatalf("suscriptores = %d, se esperaba 1", m.Suscriptores(42))
	}

	m.Unsubscribe(c, 42)
	if m.Suscriptores(42) != 0 {
		t.Fatalf("suscriptores tras la baja = %d, se esperaba 0", m.Suscriptores(42))
	}
}

func TestSubscribeAutorizacion(t *testing.T) {
	m := NewManager()
	m.CanSubscribe = func(userID string, ofertaID int64) bool {
		return userID == "participante"
	}

	participante := nuevoClientePrueba(m, "participante")
	intruso := nuevoClientePrueba(m, "intruso")

	if !m.Subscribe(participante, 7) {
		t.Fatal("el participante debe poder suscribirse")
	}
	if m.Subscribe(intruso, 7) {
		t.Fatal("un usuario ajeno a la oferta no debe poder suscribirse")
	}
	if m.Suscriptores(7) != 1 {
		t.Fatalf("suscriptores = %d, se esperaba 1", m.Suscriptores(7))
	}
}

func TestRemoveClientLiberaSuscripciones(t *testing.T) {
	m := NewManager()
	c := nuevoClientePrueba(m, "usuario-1")

	m.Subscribe(c, 1)
	m.Subscribe(c, 2)

	m.RemoveClient(c.ID)

	if m.Suscriptores(1) != 0 || m.Suscriptores(2) != 0 {
		t.Fatal("las suscripciones deben liberarse al dar de baja al cliente")
	}
	if len(m.ofertaSubs) != 0 {
		t.Fatalf("registros de suscripción restantes = %d, se esperaba 0", len(m.ofertaSubs))
	}
}

func TestSendToOfertaEncolaEventos(t *testing.T) {
	m := NewManager()
	emisor := nuevoClientePrueba(m, "emisor")
	receptor := nuevoClientePrueba(m, "receptor")

	m.Subscribe(emisor, 9)
	m.Subscribe(receptor, 9)

	m.SendToOferta(9, Event{Type: EventNuevoMensaje}, "emisor")

	select {
	case <-receptor.send:
		// El receptor recibe el evento
	case <-esperar():
		t.Fatal("el receptor no recibió el evento")
	}

	select {
	case <-emisor.send:
		t.Fatal("el emisor no debe recibir su propio evento")
	case <-esperar():
	}
}
