package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgErrors_DetectaCodigos(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(unique), "debe detectar el código aunque venga envuelto")
	assert.False(t, isForeignKeyViolation(unique))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestPgErrors_TextoInvalidoParaUUID(t *testing.T) {
	err := fmt.Errorf("get material: %w", &pgconn.PgError{Code: "22P02"})
	assert.True(t, isInvalidText(err))
	assert.False(t, isInvalidText(&pgconn.PgError{Code: "23505"}))
}

func TestGetByID_IDNoUUIDEsNoEncontrado(t *testing.T) {
	// Caso: IDs que no son UUID no llegan a la base (Querier nil) y se reportan como inexistentes.
	ctx := context.Background()

	m, err := NewMaterialRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, m)

	batches := NewInventoryBatchRepository(nil)
	b, err := batches.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = batches.GetForUpdate(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, b)

	assert.True(t, isUUID("3f1b2c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"))
}

func TestMigrations_EmbebidasEnOrden(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/00001_create_materials.sql",
		"migrations/00002_create_inventory_batches.sql",
		"migrations/00003_create_consumption_events.sql",
	}, files)

	for _, f := range files {
		body, err := migrationsFS.ReadFile(f)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", f)
		assert.Contains(t, string(body), "-- +goose Down", f)
	}
}
