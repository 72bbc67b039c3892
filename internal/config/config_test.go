package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 12, cfg.Policy.DefaultMonths)
	assert.Equal(t, ":8080", cfg.Addr())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
  write_timeout: 30s
database:
  driver: sqlite
  sqlite_path: /tmp/petvax-test.db
schedule:
  timezone: America/Sao_Paulo
policy:
  default_months: 12
  intervals:
    Leishmaniose: 4
    Gripe Canina: 6
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("PETVAX_LOG_FORMAT", "json")
	t.Setenv("PETVAX_SERVER_PORT", "9191")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/petvax-test.db", cfg.Database.SQLitePath)
	// viper baja las claves a minúsculas; la tabla compara sin mayúsculas igual
	assert.Equal(t, 4, cfg.Policy.Intervals["leishmaniose"])
	assert.Equal(t, 6, cfg.Policy.Intervals["gripe canina"])
}

func TestLoad_LegacyEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("PETVAX_DATABASE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/petvax?sslmode=disable")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "localhost:5432")
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverMemory},
	}
	require.NoError(t, base.Validate())

	pg := base
	pg.Database.Driver = DriverPostgres
	assert.Error(t, pg.Validate())

	unknown := base
	unknown.Database.Driver = "mongo"
	assert.Error(t, unknown.Validate())

	badTZ := base
	badTZ.Schedule.Timezone = "Mars/Olympus"
	assert.Error(t, badTZ.Validate())

	badPolicy := base
	badPolicy.Policy.Intervals = map[string]int{"V10": 0}
	assert.Error(t, badPolicy.Validate())
}
