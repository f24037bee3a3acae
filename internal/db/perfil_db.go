package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/truquelocal/truque-api/internal/models"
)

// ErrEmailEnUso se devuelve al registrar un email ya existente
var ErrEmailEnUso = fmt.Errorf("el email ya está registrado")

// CreatePerfil crea un nuevo perfil con sus credenciales
func CreatePerfil(email, passwordHash, nombre string) (*models.Perfil, error) {
	ctx, cancel := GetContext()
	defer cancel()

	// Comprobamos que el email no está en uso
	var existe bool
	err := Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM perfiles WHERE email = $1)
	`, email).Scan(&existe)
	if err != nil {
		return nil, fmt.Errorf("error al comprobar el email: %w", err)
	}
	if existe {
		return nil, ErrEmailEnUso
	}

	perfil := &models.Perfil{Nombre: nombre}
	err = Pool.QueryRow(ctx, `
		INSERT INTO perfiles (email, password_hash, nombre)
		VALUES ($1, $2, $3)
		RETURNING id, reputacion, intercambios_completados, created_at
	`, email, passwordHash, nombre).Scan(
		&perfil.ID,
		&perfil.Reputacion,
		&perfil.IntercambiosCompletados,
		&perfil.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error al crear el perfil: %w", err)
	}

	return perfil, nil
}

// GetCredenciales obtiene el perfil y el hash de contraseña por email
func GetCredenciales(email string) (*models.Perfil, string, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var perfil models.Perfil
	var passwordHash string

	err := Pool.QueryRow(ctx, `
		SELECT id, nombre, avatar_url, telefono, bio,
		       ubicacion_lat, ubicacion_lng, ubicacion_texto,
		       reputacion, intercambios_completados, created_at, password_hash
		FROM perfiles
		WHERE email = $1
	`, email).Scan(
		&perfil.ID,
		&perfil.Nombre,
		&perfil.AvatarURL,
		&perfil.Telefono,
		&perfil.Bio,
		&perfil.UbicacionLat,
		&perfil.UbicacionLng,
		&perfil.UbicacionTexto,
		&perfil.Reputacion,
		&perfil.IntercambiosCompletados,
		&perfil.CreatedAt,
		&passwordHash,
	)
	if err != nil {
		return nil, "", err
	}

	return &perfil, passwordHash, nil
}

// GetPerfil obtiene un perfil por su ID
func GetPerfil(ctx context.Context, perfilID uuid.UUID) (*models.Perfil, error) {
	var perfil models.Perfil

	err := Pool.QueryRow(ctx, `
		SELECT id, nombre, avatar_url, telefono, bio,
		       ubicacion_lat, ubicacion_lng, ubicacion_texto,
		       reputacion, intercambios_completados, created_at
		FROM perfiles
		WHERE id = $1
	`, perfilID).Scan(
		&perfil.ID,
		&perfil.Nombre,
		&perfil.AvatarURL,
		&perfil.Telefono,
		&perfil.Bio,
		&perfil.UbicacionLat,
		&perfil.UbicacionLng,
		&perfil.UbicacionTexto,
		&perfil.Reputacion,
		&perfil.IntercambiosCompletados,
		&perfil.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &perfil, nil
}

// GetPerfilResumen obtiene la información mínima de un usuario para joins de la API
func GetPerfilResumen(ctx context.Context, perfilID uuid.UUID) *models.PerfilResumen {
	var resumen models.PerfilResumen

	err := Pool.QueryRow(ctx, `
		SELECT id, nombre, avatar_url FROM perfiles WHERE id = $1
	`, perfilID).Scan(&resumen.ID, &resumen.Nombre, &resumen.AvatarURL)
	if err != nil {
		return nil
	}

	return &resumen
}

// UpdatePerfil actualiza los datos editables del perfil
func UpdatePerfil(perfilID uuid.UUID, nombre string, avatarURL, telefono, bio *string) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE perfiles
		SET nombre = $1, avatar_url = $2, telefono = $3, bio = $4, updated_at = NOW()
		WHERE id = $5
	`, nombre, avatarURL, telefono, bio, perfilID)
	if err != nil {
		return fmt.Errorf("error al actualizar el perfil: %w", err)
	}

	return nil
}

// SetUbicacion sobrescribe la ubicación actual del perfil (última escritura gana)
func SetUbicacion(perfilID uuid.UUID, lat, lng float64, texto *string) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE perfiles
		SET ubicacion_lat = $1, ubicacion_lng = $2, ubicacion_texto = $3, updated_at = NOW()
		WHERE id = $4
	`, lat, lng, texto, perfilID)
	if err != nil {
		return fmt.Errorf("error al actualizar la ubicación: %w", err)
	}

	return nil
}

// ClearUbicacion vacía la ubicación almacenada del perfil
func ClearUbicacion(perfilID uuid.UUID) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE perfiles
		SET ubicacion_lat = NULL, ubicacion_lng = NULL, ubicacion_texto = NULL, updated_at = NOW()
		WHERE id = $1
	`, perfilID)
	if err != nil {
		return fmt.Errorf("error al limpiar la ubicación: %w", err)
	}

	return nil
}

// UpdatePasswordHash guarda un nuevo hash de contraseña
func UpdatePasswordHash(perfilID uuid.UUID, passwordHash string) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE perfiles SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, passwordHash, perfilID)
	if err != nil {
		return fmt.Errorf("error al actualizar la contraseña: %w", err)
	}

	return nil
}

// RecalcularReputacion recalcula la reputación y el contador de intercambios
// de un usuario a partir de sus valoraciones. Se ejecuta dentro de la
// transacción que crea la valoración.
func RecalcularReputacion(ctx context.Context, tx pgx.Tx, perfilID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE perfiles
		SET reputacion = COALESCE((
		        SELECT AVG(puntuacion) FROM valoraciones WHERE evaluado_id = $1
		    ), 0),
		    intercambios_completados = (
		        SELECT COUNT(DISTINCT oferta_id) FROM valoraciones WHERE evaluado_id = $1
		    ),
		    updated_at = NOW()
		WHERE id = $1
	`, perfilID)
	if err != nil {
		return fmt.Errorf("error al recalcular la reputación: %w", err)
	}

	return nil
}
