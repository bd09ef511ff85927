package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"

	migrationsFS "github.com/Miraines/storefront-auth/scripts/db/migrations"
)

func TestEmbeddedMigrations_Pairs(t *testing.T) {
	names, err := fs.Glob(migrationsFS.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups, downs := 0, 0
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups++
		case strings.HasSuffix(n, ".down.sql"):
			downs++
		}
	}
	require.Equal(t, ups, downs, "every up migration needs a down migration")
}

func TestEmbeddedMigrations_SourceReadable(t *testing.T) {
	src, err := iofs.New(migrationsFS.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), first)

	r, identifier, err := src.ReadUp(first)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, "create_users", identifier)
}

func TestUsersMigration_UniqueEmail(t *testing.T) {
	b, err := fs.ReadFile(migrationsFS.FS, "000001_create_users.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(b), "CREATE UNIQUE INDEX")
}
