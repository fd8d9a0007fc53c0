package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var keys = []string{
	"INVENTORY_FILE", "INVENTORY_AUTOSAVE", "ACTIVITY_DB_PATH", "ACTIVITY_MAX_ENTRIES", "LOG_LEVEL",
}

// unsetAll clears the variables for the test and restores them afterwards
func unsetAll(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetAll(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "inventario.json", cfg.InventoryFile)
	require.False(t, cfg.AutoSave)
	require.Empty(t, cfg.ActivityDBPath)
	require.Equal(t, 500, cfg.ActivityMaxEntries)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	unsetAll(t)
	t.Setenv("INVENTORY_FILE", "/tmp/stock.json")
	t.Setenv("INVENTORY_AUTOSAVE", "true")
	t.Setenv("ACTIVITY_DB_PATH", "/tmp/activity.db")
	t.Setenv("ACTIVITY_MAX_ENTRIES", "25")
	t.Setenv("LOG_LEVEL", " DEBUG ")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "/tmp/stock.json", cfg.InventoryFile)
	require.True(t, cfg.AutoSave)
	require.Equal(t, "/tmp/activity.db", cfg.ActivityDBPath)
	require.Equal(t, 25, cfg.ActivityMaxEntries)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvFile(t *testing.T) {
	unsetAll(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("INVENTORY_FILE=desde_fichero.json\nLOG_LEVEL=info\n"), 0o600))

	// the environment wins over the file
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	require.Equal(t, "desde_fichero.json", cfg.InventoryFile)
	require.Equal(t, "error", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"empty file":   {"INVENTORY_FILE", " "},
		"zero entries": {"ACTIVITY_MAX_ENTRIES", "0"},
		"bad number":   {"ACTIVITY_MAX_ENTRIES", "many"},
		"bad level":    {"LOG_LEVEL", "verbose"},
		"bad bool":     {"INVENTORY_AUTOSAVE", "maybe"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			unsetAll(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	require.Error(t, cfg.Validate())
}
