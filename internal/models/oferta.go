package models

import (
	"time"

	"github.com/google/uuid"
)

// Estados del ciclo de vida de una oferta
const (
	OfertaPendiente  = "pendiente"
	OfertaAceptada   = "aceptada"
	OfertaRechazada  = "rechazada"
	OfertaCancelada  = "cancelada"
	OfertaCompletada = "completada"
)

// Oferta representa una propuesta de intercambio entre dos objetos
type Oferta struct {
	ID               int64     `json:"id"`
	ObjetoOferenteID int64     `json:"objeto_oferente_id"`
	ObjetoReceptorID int64     `json:"objeto_receptor_id"`
	OferenteID       uuid.UUID `json:"oferente_id"`
	ReceptorID       uuid.UUID `json:"receptor_id"`
	Mensaje          *string   `json:"mensaje,omitempty"`
	Estado           string    `json:"estado"`
	Respuesta        *string   `json:"respuesta,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Campos adicionales para la API
	ObjetoOferente *Objeto        `json:"objeto_oferente,omitempty"`
	ObjetoReceptor *Objeto        `json:"objeto_receptor,omitempty"`
	Oferente       *PerfilResumen `json:"oferente,omitempty"`
	Receptor       *PerfilResumen `json:"receptor,omitempty"`
}

// TransicionOfertaValida comprueba la máquina de estados de las ofertas:
// pendiente -> aceptada | rechazada | cancelada, aceptada -> completada.
// Cualquier otra transición es inválida.
func TransicionOfertaValida(desde, hacia string) bool {
	switch desde {
	case OfertaPendiente:
		return hacia == OfertaAceptada || hacia == OfertaRechazada || hacia == OfertaCancelada
	case OfertaAceptada:
		return hacia == OfertaCompletada
	}
	return false
}

// EstadoOfertaValido indica si el estado pertenece al enum
func EstadoOfertaValido(estado string) bool {
	switch estado {
	case OfertaPendiente, OfertaAceptada, OfertaRechazada, OfertaCancelada, OfertaCompletada:
		return true
	}
	return false
}

// ChatDisponible indica si la oferta admite mensajes. El chat acompaña a la
// oferta desde que se crea y sigue abierto tras completarla; se cierra al
// rechazarla o cancelarla.
func ChatDisponible(estado string) bool {
	switch estado {
	case OfertaPendiente, OfertaAceptada, OfertaCompletada:
		return true
	}
	return false
}
