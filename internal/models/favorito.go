package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorito representa un objeto guardado como favorito
type Favorito struct {
	ID        int64     `json:"id"`
	UsuarioID uuid.UUID `json:"usuario_id"`
	ObjetoID  int64     `json:"objeto_id"`
	CreatedAt time.Time `json:"created_at"`

	// Campos adicionales para la API
	Objeto *Objeto `json:"objeto,omitempty"`
}
