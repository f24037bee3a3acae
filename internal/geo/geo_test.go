package geo

import (
	"math"
	"testing"
)

func TestDistanceKmCero(t *testing.T) {
	d := DistanceKm(40.4168, -3.7038, 40.4168, -3.7038)
	if d != 0 {
		t.Fatalf("distancia entre un punto y sí mismo = %v, se esperaba 0", d)
	}
}

func TestDistanceKmSimetrica(t *testing.T) {
	ida := DistanceKm(40.4168, -3.7038, 41.3874, 2.1686)
	vuelta := DistanceKm(41.3874, 2.1686, 40.4168, -3.7038)
	if math.Abs(ida-vuelta) > 1e-9 {
		t.Fatalf("la distancia no es simétrica: ida=%v vuelta=%v", ida, vuelta)
	}
}

func TestDistanceKmMadridBarcelona(t *testing.T) {
	// Madrid - Barcelona, unos 504 km en línea recta
	d := DistanceKm(40.4168, -3.7038, 41.3874, 2.1686)
	if d < 499 || d > 509 {
		t.Fatalf("Madrid-Barcelona = %v km, se esperaba un valor cercano a 504", d)
	}
}

func TestDistanceKmMonotona(t *testing.T) {
	centro := Punto{Lat: 40.4168, Lng: -3.7038}
	cercano := Punto{Lat: 40.45, Lng: -3.70}
	lejano := Punto{Lat: 41.0, Lng: -3.70}

	dCercano := DistanciaEntre(centro, cercano)
	dLejano := DistanciaEntre(centro, lejano)
	if dCercano >= dLejano {
		t.Fatalf("el punto cercano (%v km) no puede estar más lejos que el lejano (%v km)", dCercano, dLejano)
	}
}

func TestDentroDelRadio(t *testing.T) {
	centro := Punto{Lat: 40.4168, Lng: -3.7038}

	tests := []struct {
		nombre  string
		punto   Punto
		radioKm float64
		want    bool
	}{
		{"mismo punto", centro, 1, true},
		{"punto cercano radio amplio", Punto{Lat: 40.45, Lng: -3.70}, 10, true},
		{"Barcelona fuera de 50 km", Punto{Lat: 41.3874, Lng: 2.1686}, 50, false},
	}

	for _, tt := range tests {
		if got := DentroDelRadio(tt.punto, centro, tt.radioKm); got != tt.want {
			t.Errorf("%s: DentroDelRadio = %v, se esperaba %v", tt.nombre, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0.05, "A menos de 1 km"},
		{0.5, "A menos de 1 km"},
		{0.99, "A menos de 1 km"},
		{1.0, "1.0 km"},
		{3.2, "3.2 km"},
		{9.4, "9.4 km"},
		{12.7, "13 km"},
		{49.4, "49 km"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.km); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, se esperaba %q", tt.km, got, tt.want)
		}
	}
}
