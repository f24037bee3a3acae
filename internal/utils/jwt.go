package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService se encarga de crear y validar tokens JWT
type JWTService struct {
	secretKey string
}

// NewJWTService crea una nueva instancia de JWTService
func NewJWTService(secretKey string) *JWTService {
	return &JWTService{secretKey: secretKey}
}

// GenerateToken crea un token JWT de sesión
func (s *JWTService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// GenerateResetToken crea un token de un solo propósito para restablecer la contraseña
func (s *JWTService) GenerateResetToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": "reset",
		"exp":     time.Now().Add(1 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken comprueba un token JWT
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secretKey), nil
	})
}

// ExtractUserID extrae el ID de usuario de un token de sesión válido
func (s *JWTService) ExtractUserID(tokenString string) (string, error) {
	return s.extractUserID(tokenString, "")
}

// ExtractResetUserID extrae el ID de usuario de un token de restablecimiento válido
func (s *JWTService) ExtractResetUserID(tokenString string) (string, error) {
	return s.extractUserID(tokenString, "reset")
}

func (s *JWTService) extractUserID(tokenString, purpose string) (string, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return "", errors.New("token inválido o caducado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("claims inválidos")
	}

	if purpose != "" {
		if p, _ := claims["purpose"].(string); p != purpose {
			return "", errors.New("token de propósito incorrecto")
		}
	} else if _, existe := claims["purpose"]; existe {
		// Un token de restablecimiento no sirve como sesión
		return "", errors.New("token de propósito incorrecto")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token sin ID de usuario")
	}

	return userID, nil
}
