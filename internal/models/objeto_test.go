package models

import (
	"testing"
)

func TestFiltrarObjetosPorTexto(t *testing.T) {
	objetos := []Objeto{
		{ID: 1, Titulo: "Bicicleta de montaña", Descripcion: "Ruedas de 26 pulgadas"},
		{ID: 2, Titulo: "Silla de oficina", Descripcion: "Respaldo ergonómico"},
		{ID: 3, Titulo: "Monitor 24 pulgadas", Descripcion: "Para la oficina o casa"},
	}

	tests := []struct {
		nombre   string
		consulta string
		wantIDs  []int64
	}{
		{"consulta vacía devuelve todo", "", []int64{1, 2, 3}},
		{"coincidencia en el título", "bicicleta", []int64{1}},
		{"coincidencia en la descripción", "ergonómico", []int64{2}},
		{"sin distinguir mayúsculas", "OFICINA", []int64{2, 3}},
		{"sin coincidencias", "lavadora", nil},
	}

	for _, tt := range tests {
		got := FiltrarObjetosPorTexto(objetos, tt.consulta)
		if len(got) != len(tt.wantIDs) {
			t.Fatalf("%s: se obtuvieron %d objetos, se esperaban %d", tt.nombre, len(got), len(tt.wantIDs))
		}
		for i, obj := range got {
			if obj.ID != tt.wantIDs[i] {
				t.Errorf("%s: objeto[%d].ID = %d, se esperaba %d", tt.nombre, i, obj.ID, tt.wantIDs[i])
			}
		}
	}
}

func TestFiltrarObjetosPorTextoVacioNoCopia(t *testing.T) {
	objetos := []Objeto{{ID: 1, Titulo: "Lámpara"}}
	got := FiltrarObjetosPorTexto(objetos, "")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("con consulta vacía el conjunto debe devolverse sin tocar")
	}
}

func TestCondicionValida(t *testing.T) {
	validas := []string{CondicionNuevo, CondicionCasiNuevo, CondicionBueno, CondicionUsado, CondicionParaRepuesto}
	for _, cond := range validas {
		if !CondicionValida(cond) {
			t.Errorf("CondicionValida(%q) = false, se esperaba true", cond)
		}
	}

	if CondicionValida("perfecto") {
		t.Error("CondicionValida(\"perfecto\") = true, se esperaba false")
	}
	if CondicionValida("") {
		t.Error("CondicionValida(\"\") = true, se esperaba false")
	}
}

func TestBorradorAgregarImagen(t *testing.T) {
	var b BorradorPublicacion

	for i := 0; i < MaxImagenes; i++ {
		if err := b.AgregarImagen("https://example.com/foto.jpg"); err != nil {
			t.Fatalf("imagen %d: error inesperado: %v", i+1, err)
		}
	}

	err := b.AgregarImagen("https://example.com/extra.jpg")
	if err != ErrMaxImagenes {
		t.Fatalf("sexta imagen: error = %v, se esperaba ErrMaxImagenes", err)
	}
	if err.Error() != "Máximo 5 imágenes permitidas" {
		t.Fatalf("mensaje de error = %q", err.Error())
	}
	if len(b.Imagenes) != MaxImagenes {
		t.Fatalf("el borrador tiene %d imágenes, se esperaban %d", len(b.Imagenes), MaxImagenes)
	}
}

func TestBorradorPuedeAvanzar(t *testing.T) {
	lat, lng := 40.4168, -3.7038

	completo := BorradorPublicacion{
		Titulo:       "Bicicleta",
		Descripcion:  "En buen estado",
		Condicion:    CondicionBueno,
		CategoriaID:  3,
		Imagenes:     []string{"https://example.com/bici.jpg"},
		UbicacionLat: &lat,
		UbicacionLng: &lng,
	}

	for paso := 1; paso <= 3; paso++ {
		if !completo.PuedeAvanzar(paso) {
			t.Errorf("borrador completo: PuedeAvanzar(%d) = false", paso)
		}
	}

	sinTitulo := completo
	sinTitulo.Titulo = "   "
	if sinTitulo.PuedeAvanzar(1) {
		t.Error("sin título: PuedeAvanzar(1) = true, se esperaba false")
	}

	condicionMala := completo
	condicionMala.Condicion = "regular"
	if condicionMala.PuedeAvanzar(1) {
		t.Error("condición inválida: PuedeAvanzar(1) = true, se esperaba false")
	}

	sinFotos := completo
	sinFotos.Imagenes = nil
	if sinFotos.PuedeAvanzar(2) {
		t.Error("sin fotos: PuedeAvanzar(2) = true, se esperaba false")
	}

	sinUbicacion := completo
	sinUbicacion.UbicacionLat = nil
	if sinUbicacion.PuedeAvanzar(3) {
		t.Error("sin ubicación: PuedeAvanzar(3) = true, se esperaba false")
	}

	if completo.PuedeAvanzar(4) {
		t.Error("paso inexistente: PuedeAvanzar(4) = true, se esperaba false")
	}
}
