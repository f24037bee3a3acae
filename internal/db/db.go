package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/truquelocal/truque-api/internal/config"
)

// Pool representa el pool de conexiones a la base de datos
var Pool *pgxpool.Pool

// InitDB inicializa la conexión a la base de datos
func InitDB(cfg *config.Config) error {
	var err error

	log.Printf("Conectando a la base de datos: %s\n", cfg.DatabaseURL)

	// Creamos un contexto con timeout para la conexión
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Configuramos el pool de conexiones
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("error al analizar la URL de la base de datos: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	// Creamos el pool de conexiones
	Pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("error al crear el pool de conexiones: %w", err)
	}

	// Comprobamos la conexión
	if err = Pool.Ping(ctx); err != nil {
		return fmt.Errorf("error al comprobar la conexión: %w", err)
	}

	log.Println("✅ Conexión a la base de datos establecida")
	return nil
}

// CloseDB cierra la conexión a la base de datos
func CloseDB() {
	if Pool != nil {
		Pool.Close()
	}
}

// GetContext devuelve un contexto con timeout para consultas a la base de datos
func GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
