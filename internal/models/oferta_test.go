package models

import "testing"

func TestTransicionOfertaValida(t *testing.T) {
	estados := []string{OfertaPendiente, OfertaAceptada, OfertaRechazada, OfertaCancelada, OfertaCompletada}

	permitidas := map[[2]string]bool{
		{OfertaPendiente, OfertaAceptada}:  true,
		{OfertaPendiente, OfertaRechazada}: true,
		{OfertaPendiente, OfertaCancelada}: true,
		{OfertaAceptada, OfertaCompletada}: true,
	}

	for _, desde := range estados {
		for _, hacia := range estados {
			want := permitidas[[2]string{desde, hacia}]
			if got := TransicionOfertaValida(desde, hacia); got != want {
				t.Errorf("TransicionOfertaValida(%q, %q) = %v, se esperaba %v", desde, hacia, got, want)
			}
		}
	}
}

func TestTransicionOfertaEstadosDesconocidos(t *testing.T) {
	if TransicionOfertaValida("", OfertaAceptada) {
		t.Error("transición desde estado vacío debe ser inválida")
	}
	if TransicionOfertaValida(OfertaPendiente, "archivada") {
		t.Error("transición hacia un estado desconocido debe ser inválida")
	}
}

func TestChatDisponible(t *testing.T) {
	tests := []struct {
		estado string
		want   bool
	}{
		{OfertaPendiente, true},
		{OfertaAceptada, true},
		{OfertaCompletada, true},
		{OfertaRechazada, false},
		{OfertaCancelada, false},
		{"archivada", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ChatDisponible(tt.estado); got != tt.want {
			t.Errorf("ChatDisponible(%q) = %v, se esperaba %v", tt.estado, got, tt.want)
		}
	}
}

func TestEstadoOfertaValido(t *testing.T) {
	for _, estado := range []string{OfertaPendiente, OfertaAceptada, OfertaRechazada, OfertaCancelada, OfertaCompletada} {
		if !EstadoOfertaValido(estado) {
			t.Errorf("EstadoOfertaValido(%q) = false, se esperaba true", estado)
		}
	}
	if EstadoOfertaValido("archivada") {
		t.Error("EstadoOfertaValido(\"archivada\") = true, se esperaba false")
	}
}
