package utils

import "testing"

func TestGenerateTokenRoundTrip(t *testing.T) {
	service := NewJWTService("secreto-de-prueba")
	userID := "0d1f7e3c-9a52-4c7e-8f6e-2b1a9c4d5e6f"

	token, err := service.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	got, err := service.ExtractUserID(token)
	if err != nil {
		t.Fatalf("ExtractUserID: %v", err)
	}
	if got != userID {
		t.Fatalf("ExtractUserID = %q, se esperaba %q", got, userID)
	}
}

func TestTokenConOtroSecreto(t *testing.T) {
	tokenAjeno, err := NewJWTService("otro-secreto").GenerateToken("usuario")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewJWTService("secreto-de-prueba").ExtractUserID(tokenAjeno); err == nil {
		t.Fatal("se aceptó un token firmado con otro secreto")
	}
}

func TestResetTokenNoSirveComoSesion(t *testing.T) {
	service := NewJWTService("secreto-de-prueba")
	userID := "0d1f7e3c-9a52-4c7e-8f6e-2b1a9c4d5e6f"

	resetToken, err := service.GenerateResetToken(userID)
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	if _, err := service.ExtractUserID(resetToken); err == nil {
		t.Fatal("un token de restablecimiento no debe valer como token de sesión")
	}

	got, err := service.ExtractResetUserID(resetToken)
	if err != nil {
		t.Fatalf("ExtractResetUserID: %v", err)
	}
	if got != userID {
		t.Fatalf("ExtractResetUserID = %q, se esperaba %q", got, userID)
	}
}

func TestSesionNoSirveComoReset(t *testing.T) {
	service := NewJWTService("secreto-de-prueba")

	token, err := service.GenerateToken("usuario")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := service.ExtractResetUserID(token); err == nil {
		t.Fatal("un token de sesión no debe valer para restablecer la contraseña")
	}
}

func TestTokenInvalido(t *testing.T) {
	service := NewJWTService("secreto-de-prueba")

	if _, err := service.ExtractUserID("no-es-un-jwt"); err == nil {
		t.Fatal("se aceptó una cadena que no es un JWT")
	}
}
