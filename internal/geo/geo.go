package geo

import (
	"fmt"
	"math"
)

// RadioTierraKm es el radio de la Tierra en kilómetros
const RadioTierraKm = 6371.0

// Punto representa una coordenada geográfica
type Punto struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm calcula la distancia en kilómetros entre dos puntos
// usando la fórmula de Haversine
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return RadioTierraKm * c
}

// DistanciaEntre calcula la distancia entre dos puntos
func DistanciaEntre(a, b Punto) float64 {
	return DistanceKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// DentroDelRadio indica si un punto está dentro del radio dado (en km)
func DentroDelRadio(centro, punto Punto, radioKm float64) bool {
	return DistanciaEntre(centro, punto) <= radioKm
}

// FormatDistance devuelve la etiqueta de distancia que se muestra al usuario.
// Se aplica el mismo formato en todos los sitios donde aparece una distancia.
func FormatDistance(distanciaKm float64) string {
	if distanciaKm < 1 {
		return "A menos de 1 km"
	}
	if distanciaKm < 10 {
		return fmt.Sprintf("%.1f km", distanciaKm)
	}
	return fmt.Sprintf("%.0f km", math.Round(distanciaKm))
}
