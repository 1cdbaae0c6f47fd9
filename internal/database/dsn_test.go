package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	t.Run("defaults run sessions in utc", func(t *testing.T) {
		dsn, err := buildPostgresDSN(Config{User: "octoops", Name: "octoops"})
		require.NoError(t, err)
		assert.Equal(t,
			"host=localhost port=5432 user=octoops dbname=octoops TimeZone=UTC application_name=octoops sslmode=disable",
			dsn,
		)
	})

	t.Run("options override defaults", func(t *testing.T) {
		dsn, err := buildPostgresDSN(Config{
			User:     "ops",
			Name:     "board",
			Host:     "db.internal",
			Port:     6543,
			Password: "pass",
			Options: map[string]string{
				"sslmode":          "require",
				"application_name": "octoops-worker",
			},
		})
		require.NoError(t, err)
		for _, part := range []string{"host=db.internal", "port=6543", "password=pass", "sslmode=require", "application_name=octoops-worker"} {
			assert.Contains(t, dsn, part)
		}
		assert.NotContains(t, dsn, "sslmode=disable")
	})

	t.Run("explicit dsn wins", func(t *testing.T) {
		dsn, err := buildPostgresDSN(Config{DSN: "postgres://ops@db/board"})
		require.NoError(t, err)
		assert.Equal(t, "postgres://ops@db/board", dsn)
	})

	t.Run("requires user and name", func(t *testing.T) {
		_, err := buildPostgresDSN(Config{Host: "db"})
		require.Error(t, err)
	})
}

func TestBuildMySQLDSN(t *testing.T) {
	t.Run("defaults parse times in utc", func(t *testing.T) {
		dsn, err := buildMySQLDSN(Config{User: "octoops", Name: "octoops"})
		require.NoError(t, err)
		assert.Equal(t, "octoops@tcp(127.0.0.1:3306)/octoops?charset=utf8mb4&loc=UTC&parseTime=True", dsn)
	})

	t.Run("credentials and extra options", func(t *testing.T) {
		dsn, err := buildMySQLDSN(Config{
			User:     "ops",
			Password: "secret",
			Name:     "board",
			Host:     "db.internal",
			Port:     3307,
			Options:  map[string]string{"tls": "skip-verify"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ops:secret@tcp(db.internal:3307)/board?charset=utf8mb4&loc=UTC&parseTime=True&tls=skip-verify", dsn)
	})

	t.Run("requires user and name", func(t *testing.T) {
		_, err := buildMySQLDSN(Config{Host: "localhost"})
		require.Error(t, err)
	})
}

func TestBuildSQLiteDSN(t *testing.T) {
	dsn, err := buildSQLiteDSN(Config{})
	require.NoError(t, err)
	assert.Contains(t, dsn, "file::memory:?cache=shared")
	assert.Contains(t, dsn, "_busy_timeout=5000")

	path := filepath.Join(t.TempDir(), "nested", "octoops.db")
	dsn, err = buildSQLiteDSN(Config{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "file:"+filepath.ToSlash(path)+"?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000", dsn)
	assert.DirExists(t, filepath.Dir(path))
}

func TestMergedOptionsSortsKeys(t *testing.T) {
	pairs := mergedOptions(map[string]string{"b": "1", "a": "2"}, map[string]string{"b": "3", "c": "4"})
	assert.Equal(t, [][2]string{{"a", "2"}, {"b", "3"}, {"c", "4"}}, pairs)
}
