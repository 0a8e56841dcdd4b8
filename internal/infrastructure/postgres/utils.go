package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

// isForeignKeyViolation la fila referenciada (material, lote) no existe.
func isForeignKeyViolation(err error) bool { return pgCode(err) == pgForeignKeyViolation }

// isInvalidText el valor no se pudo convertir al tipo de la columna (p. ej. texto a UUID).
func isInvalidText(err error) bool { return pgCode(err) == pgInvalidText }

// isUUID las PK son UUID; un ID con otro formato no puede existir y no se consulta.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
