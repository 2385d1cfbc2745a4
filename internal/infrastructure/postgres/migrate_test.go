package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL_Esquemas(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/kardex?sslmode=disable", pgx5URL("postgres://u:p@db:5432/kardex?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/kardex", pgx5URL("postgresql://u@db/kardex"))
	assert.Equal(t, "pgx5://ya", pgx5URL("pgx5://ya"))
}

func TestMigrationsEmbebidas(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups), "cada migración up tiene su down")
}
