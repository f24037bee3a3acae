package objeto

import (
	"github.com/truquelocal/truque-api/internal/geo"
	"github.com/truquelocal/truque-api/internal/models"
)

// anotarDistancias recalcula la distancia de cada objeto al punto de
// referencia, descarta los que queden fuera del radio y rellena la etiqueta
// de distancia que muestra la interfaz. La distancia que viaja en la
// respuesta es siempre la de geo.DistanciaEntre, no la calculada en SQL,
// para que todas las pantallas muestren el mismo valor.
func anotarDistancias(objetos []models.Objeto, centro geo.Punto, radioKm float64) []models.Objeto {
	resultado := make([]models.Objeto, 0, len(objetos))
	for _, obj := range objetos {
		if obj.UbicacionLat == nil || obj.UbicacionLng == nil {
			continue
		}

		punto := geo.Punto{Lat: *obj.UbicacionLat, Lng: *obj.UbicacionLng}
		if !geo.DentroDelRadio(centro, punto, radioKm) {
			continue
		}

		d := geo.DistanciaEntre(centro, punto)
		obj.DistanciaKm = &d
		obj.DistanciaTexto = geo.FormatDistance(d)
		resultado = append(resultado, obj)
	}
	return resultado
}
