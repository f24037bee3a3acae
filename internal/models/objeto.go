package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxImagenes es el número máximo de fotos por objeto
const MaxImagenes = 5

// ErrMaxImagenes se devuelve al superar el límite de fotos
var ErrMaxImagenes = errors.New("Máximo 5 imágenes permitidas")

// Condiciones válidas de un objeto
const (
	CondicionNuevo        = "nuevo"
	CondicionCasiNuevo    = "casi_nuevo"
	CondicionBueno        = "bueno"
	CondicionUsado        = "usado"
	CondicionParaRepuesto = "para_repuesto"
)

// Estados del ciclo de vida de un objeto
const (
	EstadoDisponible    = "disponible"
	EstadoEnTrueque     = "en_trueque"
	EstadoIntercambiado = "intercambiado"
)

// Objeto representa un objeto publicado para intercambio
type Objeto struct {
	ID           int64     `json:"id"`
	Titulo       string    `json:"titulo"`
	Descripcion  string    `json:"descripcion"`
	Condicion    string    `json:"condicion"`
	Imagenes     []string  `json:"imagenes"`
	CategoriaID  int       `json:"categoria_id"`
	UsuarioID    uuid.UUID `json:"usuario_id"`
	UbicacionLat *float64  `json:"ubicacion_lat,omitempty"`
	UbicacionLng *float64  `json:"ubicacion_lng,omitempty"`
	Estado       string    `json:"estado"`
	Destacado    bool      `json:"destacado"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Campos adicionales para la API
	Categoria      *Categoria     `json:"categoria,omitempty"`
	Usuario        *PerfilResumen `json:"usuario,omitempty"`
	DistanciaKm    *float64       `json:"distancia_km,omitempty"`
	DistanciaTexto string         `json:"distancia_texto,omitempty"`
}

// CondicionValida indica si la condición pertenece al enum
func CondicionValida(condicion string) bool {
	switch condicion {
	case CondicionNuevo, CondicionCasiNuevo, CondicionBueno, CondicionUsado, CondicionParaRepuesto:
		return true
	}
	return false
}

// FiltrarObjetosPorTexto aplica el filtro de texto sobre el conjunto ya cargado.
// La búsqueda es por subcadena, sin distinguir mayúsculas, sobre título y
// descripción. Con consulta vacía devuelve el conjunto sin tocar.
func FiltrarObjetosPorTexto(objetos []Objeto, consulta string) []Objeto {
	if consulta == "" {
		return objetos
	}

	q := strings.ToLower(consulta)
	var filtrados []Objeto
	for _, obj := range objetos {
		if strings.Contains(strings.ToLower(obj.Titulo), q) ||
			strings.Contains(strings.ToLower(obj.Descripcion), q) {
			filtrados = append(filtrados, obj)
		}
	}
	return filtrados
}

// BorradorPublicacion recoge los datos del asistente de publicación en tres pasos:
// datos básicos, fotos y ubicación.
type BorradorPublicacion struct {
	Titulo       string
	Descripcion  string
	Condicion    string
	CategoriaID  int
	Imagenes     []string
	UbicacionLat *float64
	UbicacionLng *float64
}

// AgregarImagen añade una foto al borrador respetando el límite
func (b *BorradorPublicacion) AgregarImagen(url string) error {
	if len(b.Imagenes) >= MaxImagenes {
		return ErrMaxImagenes
	}
	b.Imagenes = append(b.Imagenes, url)
	return nil
}

// PuedeAvanzar indica si el paso indicado del asistente está completo
func (b *BorradorPublicacion) PuedeAvanzar(paso int) bool {
	switch paso {
	case 1:
		return strings.TrimSpace(b.Titulo) != "" &&
			strings.TrimSpace(b.Descripcion) != "" &&
			CondicionValida(b.Condicion) &&
			b.CategoriaID > 0
	case 2:
		return len(b.Imagenes) > 0 && len(b.Imagenes) <= MaxImagenes
	case 3:
		return b.UbicacionLat != nil && b.UbicacionLng != nil
	}
	return false
}
