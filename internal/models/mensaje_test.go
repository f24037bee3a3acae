package models

import "testing"

func TestContenidoValido(t *testing.T) {
	tests := []struct {
		texto string
		want  bool
	}{
		{"Hola, ¿sigue disponible?", true},
		{"  con espacios alrededor  ", true},
		{"", false},
		{"   ", false},
		{"\n\t ", false},
	}

	for _, tt := range tests {
		if got := ContenidoValido(tt.texto); got != tt.want {
			t.Errorf("ContenidoValido(%q) = %v, se esperaba %v", tt.texto, got, tt.want)
		}
	}
}

func TestPuntuacionValida(t *testing.T) {
	for p := 1; p <= 5; p++ {
		if !PuntuacionValida(p) {
			t.Errorf("PuntuacionValida(%d) = false, se esperaba true", p)
		}
	}
	for _, p := range []int{0, -1, 6, 100} {
		if PuntuacionValida(p) {
			t.Errorf("PuntuacionValida(%d) = true, se esperaba false", p)
		}
	}
}
