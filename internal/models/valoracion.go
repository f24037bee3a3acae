package models

import (
	"time"

	"github.com/google/uuid"
)

// Valoracion representa la valoración de un intercambio completado
type Valoracion struct {
	ID          int64     `json:"id"`
	OfertaID    int64     `json:"oferta_id"`
	EvaluadorID uuid.UUID `json:"evaluador_id"`
	EvaluadoID  uuid.UUID `json:"evaluado_id"`
	Puntuacion  int       `json:"puntuacion"`
	Comentario  *string   `json:"comentario,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Campos adicionales para la API
	Evaluador *PerfilResumen `json:"evaluador,omitempty"`
}

// PuntuacionValida comprueba el rango permitido de una valoración
func PuntuacionValida(puntuacion int) bool {
	return puntuacion >= 1 && puntuacion <= 5
}
