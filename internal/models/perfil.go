package models

import (
	"time"

	"github.com/google/uuid"
)

// Perfil representa el perfil público de un usuario
type Perfil struct {
	ID                      uuid.UUID `json:"id"`
	Nombre                  string    `json:"nombre"`
	AvatarURL               *string   `json:"avatar_url,omitempty"`
	Telefono                *string   `json:"telefono,omitempty"`
	Bio                     *string   `json:"bio,omitempty"`
	UbicacionLat            *float64  `json:"ubicacion_lat,omitempty"`
	UbicacionLng            *float64  `json:"ubicacion_lng,omitempty"`
	UbicacionTexto          *string   `json:"ubicacion_texto,omitempty"`
	Reputacion              float64   `json:"reputacion"`
	IntercambiosCompletados int       `json:"intercambios_completados"`
	CreatedAt               time.Time `json:"created_at"`
}

// PerfilResumen representa la información mínima de un usuario para joins en la API
type PerfilResumen struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}
