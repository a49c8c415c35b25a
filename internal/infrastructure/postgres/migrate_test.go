package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/x?sslmode=disable", pgx5URL("postgres://u:p@db:5432/x?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/x", pgx5URL("postgresql://u@db/x"))
	assert.Equal(t, "pgx5://already", pgx5URL("pgx5://already"))
}

func TestMigrationsEmbebidas(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, files, 2, "una migración up y su down")

	up, err := fs.ReadFile(migrationsFS, "migrations/000001_stock_ledger.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CHECK (quantity >= 0)")
}
