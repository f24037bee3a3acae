package objeto

import (
	"testing"

	"github.com/truquelocal/truque-api/internal/geo"
	"github.com/truquelocal/truque-api/internal/models"
)

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func TestAnotarDistancias(t *testing.T) {
	// Centro en Madrid
	centro := geo.Punto{Lat: 40.4168, Lng: -3.7038}

	cercanoLat, cercanoLng := coords(40.42, -3.70)
	lejanoLat, lejanoLng := coords(41.3874, 2.1686) // Barcelona, ~504 km

	objetos := []models.Objeto{
		{ID: 1, Titulo: "Lámpara", UbicacionLat: cercanoLat, UbicacionLng: cercanoLng},
		{ID: 2, Titulo: "Bicicleta", UbicacionLat: lejanoLat, UbicacionLng: lejanoLng},
		{ID: 3, Titulo: "Sin ubicación"},
	}

	resultado := anotarDistancias(objetos, centro, 10)

	if len(resultado) != 1 {
		t.Fatalf("objetos dentro del radio = %d, se esperaba 1", len(resultado))
	}
	if resultado[0].ID != 1 {
		t.Fatalf("objeto dentro del radio = %d, se esperaba el 1", resultado[0].ID)
	}
	if resultado[0].DistanciaKm == nil {
		t.Fatal("la distancia del objeto debe estar rellenada")
	}
	if *resultado[0].DistanciaKm > 10 {
		t.Fatalf("distancia = %v km, debe ser menor que el radio", *resultado[0].DistanciaKm)
	}
	if resultado[0].DistanciaTexto != "A menos de 1 km" {
		t.Fatalf("etiqueta de distancia = %q, se esperaba %q", resultado[0].DistanciaTexto, "A menos de 1 km")
	}
}

func TestAnotarDistanciasEtiquetas(t *testing.T) {
	centro := geo.Punto{Lat: 40.4168, Lng: -3.7038}

	// Un punto a unos 3 km al norte del centro (1 grado de latitud ~ 111 km)
	lat, lng := coords(40.4438, -3.7038)
	objetos := []models.Objeto{{ID: 1, UbicacionLat: lat, UbicacionLng: lng}}

	resultado := anotarDistancias(objetos, centro, 50)
	if len(resultado) != 1 {
		t.Fatalf("objetos dentro del radio = %d, se esperaba 1", len(resultado))
	}

	d := *resultado[0].DistanciaKm
	if d < 2 || d > 4 {
		t.Fatalf("distancia = %v km, se esperaba un valor cercano a 3", d)
	}
	if resultado[0].DistanciaTexto != geo.FormatDistance(d) {
		t.Fatalf("la etiqueta debe salir de FormatDistance: %q", resultado[0].DistanciaTexto)
	}
}
