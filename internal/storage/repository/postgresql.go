// Package repository implementa el almacenamiento sobre PostgreSQL para
// cuentas, suscriptores, niños, registros diarios, metas, mensajes y
// suscripciones push.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registro del driver pgx para database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Errores centinela que los servicios distinguen de los fallos de
// infraestructura.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrChildNotFound      = errors.New("child not found")
	ErrGoalNotFound       = errors.New("goal not found")
	ErrMessageNotFound    = errors.New("message not found")
)

// Storage encapsula la conexión a PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New abre la conexión a PostgreSQL y comprueba que responde.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady comprueba que el esquema está migrado.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscribers'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subscribers missing or query error: %w", err)
	}
	return nil
}
