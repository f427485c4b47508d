package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_SECRET", "DB_PATH", "PORT", "APP_ENV", "LOG_LEVEL"} {
		unsetEnv(t, k)
		unsetEnv(t, envPrefix+"_"+k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, defaultDBPath, cfg.DBPath)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultEnv, cfg.Env)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.True(t, cfg.IsDev())
	assert.Len(t, cfg.Warnings(), 3)
}

func TestLoadPrefersEnvironment(t *testing.T) {
	clearConfigEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("LIMONERO_PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/other.db")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.False(t, cfg.IsDev())
}

func TestLoadReadsDotEnvAndYAML(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_EMAIL=admin@limonero.test\nADMIN_PASSWORD=secret\nSESSION_SECRET=s3cr3t\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: \"7070\"\nlog_level: debug\n"), 0o600))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "admin@limonero.test", cfg.AdminEmail)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.Warnings())
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearConfigEnv(t)
	chdir(t, t.TempDir())

	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
