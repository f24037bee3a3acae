package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/truquelocal/truque-api/internal/config"
	"github.com/truquelocal/truque-api/internal/db"
	"github.com/truquelocal/truque-api/internal/utils"
)

// AuthService representa el servicio de autenticación
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService crea una nueva instancia de AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// Registro crea un nuevo perfil con email y contraseña
func (s *AuthService) Registro(c fiber.Ctx) error {
	var requestData struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Nombre   string `json:"nombre"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Error al decodificar el cuerpo de la petición: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	email := strings.ToLower(strings.TrimSpace(requestData.Email))
	nombre := strings.TrimSpace(requestData.Nombre)

	if email == "" || !strings.Contains(email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email inválido"})
	}

	if len(requestData.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "La contraseña debe tener al menos 6 caracteres"})
	}

	if nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "El nombre es obligatorio"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(requestData.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Error al generar el hash de la contraseña: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno del servidor"})
	}

	perfil, err := db.CreatePerfil(email, string(hash), nombre)
	if err != nil {
		if err == db.ErrEmailEnUso {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "El email ya está registrado"})
		}
		log.Printf("❌ Error al crear el perfil: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al crear el perfil"})
	}

	token, err := s.jwtService.GenerateToken(perfil.ID.String())
	if err != nil {
		log.Printf("❌ Error al generar el token JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al generar el token"})
	}

	log.Printf("✅ Perfil creado: %s (%s)", perfil.Nombre, perfil.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":  token,
		"perfil": perfil,
	})
}

// Login valida las credenciales y emite un token de sesión
func (s *AuthService) Login(c fiber.Ctx) error {
	var requestData struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Error al decodificar el cuerpo de la petición: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	email := strings.ToLower(strings.TrimSpace(requestData.Email))
	if email == "" || requestData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email y contraseña son obligatorios"})
	}

	perfil, passwordHash, err := db.GetCredenciales(email)
	if err != nil {
		// Respuesta uniforme: no revelamos si el email existe
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Credenciales inválidas"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(requestData.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Credenciales inválidas"})
	}

	token, err := s.jwtService.GenerateToken(perfil.ID.String())
	if err != nil {
		log.Printf("❌ Error al generar el token JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al generar el token"})
	}

	return c.JSON(fiber.Map{
		"token":  token,
		"perfil": perfil,
	})
}

// RecuperarPassword emite un token de restablecimiento de corta duración.
// El envío del correo corre a cargo de un servicio externo; aquí solo
// generamos el token y lo registramos.
func (s *AuthService) RecuperarPassword(c fiber.Ctx) error {
	var requestData struct {
		Email string `json:"email"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	email := strings.ToLower(strings.TrimSpace(requestData.Email))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email es obligatorio"})
	}

	perfil, _, err := db.GetCredenciales(email)
	if err == nil {
		resetToken, tokenErr := s.jwtService.GenerateResetToken(perfil.ID.String())
		if tokenErr != nil {
			log.Printf("❌ Error al generar el token de restablecimiento: %v", tokenErr)
		} else {
			log.Printf("✅ Token de restablecimiento generado para %s: %s", email, resetToken)
		}
	}

	// Respuesta uniforme para no revelar qué emails existen
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Si el email existe, recibirás instrucciones para restablecer tu contraseña",
	})
}

// ResetPassword cambia la contraseña usando un token de restablecimiento
func (s *AuthService) ResetPassword(c fiber.Ctx) error {
	var requestData struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de datos inválido"})
	}

	if requestData.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token no proporcionado"})
	}

	if len(requestData.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "La contraseña debe tener al menos 6 caracteres"})
	}

	userID, err := s.jwtService.ExtractResetUserID(requestData.Token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token inválido o expirado"})
	}

	perfilID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token inválido o expirado"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(requestData.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Error al generar el hash de la contraseña: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno del servidor"})
	}

	if err := db.UpdatePasswordHash(perfilID, string(hash)); err != nil {
		log.Printf("❌ Error al actualizar la contraseña: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al actualizar la contraseña"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contraseña actualizada correctamente",
	})
}
