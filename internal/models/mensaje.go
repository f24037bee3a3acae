package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mensaje representa un mensaje del chat de una oferta
type Mensaje struct {
	ID        int64     `json:"id"`
	OfertaID  int64     `json:"oferta_id"`
	EmisorID  uuid.UUID `json:"emisor_id"`
	Contenido string    `json:"contenido"`
	CreatedAt time.Time `json:"created_at"`

	// Campos adicionales para la API
	Emisor *PerfilResumen `json:"emisor,omitempty"`
}

// ContenidoValido indica si el texto del mensaje tiene contenido real.
// Un mensaje vacío o solo de espacios no se guarda.
func ContenidoValido(texto string) bool {
	return strings.TrimSpace(texto) != ""
}
