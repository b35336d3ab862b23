package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, ".")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestInitialMigrationCreatesSiteTables(t *testing.T) {
	data, err := migrationFiles.ReadFile("1_site_content.up.sql")
	require.NoError(t, err)

	for _, table := range []string{
		"site_settings", "hero_banners", "footer_content", "testimonials",
		"job_listings", "contact_submissions", "admin_activity_log",
	} {
		assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS "+table, table)
	}
}
