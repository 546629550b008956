package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("FASTCREW_TEST_HOST", "db.internal")

	out := expandEnv("host: ${FASTCREW_TEST_HOST}")
	assert.Equal(t, "host: db.internal", out)

	// 未定义变量走默认值
	out = expandEnv("port: ${FASTCREW_TEST_MISSING:5432}")
	assert.Equal(t, "port: 5432", out)

	// 已定义变量优先于默认值
	out = expandEnv("host: ${FASTCREW_TEST_HOST:fallback}")
	assert.Equal(t, "host: db.internal", out)

	// 无默认值且未定义时原样保留
	out = expandEnv("key: ${FASTCREW_TEST_MISSING}")
	assert.Equal(t, "key: ${FASTCREW_TEST_MISSING}", out)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"),
		[]byte("app:\n  name: fastcrew-api\n"), 0o644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fastcrew-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.False(t, cfg.Database.Postgres.Configured())
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "dev_user", cfg.Security.Identity.DefaultUserID)
	assert.Equal(t, "azure", cfg.LLM.DefaultProvider)
	assert.True(t, cfg.Observability.Metrics.Enabled)
}

func TestLoadEnvOverlayAndMerge(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"),
		[]byte("storage:\n  data_dir: base_dir\nserver:\n  http:\n    port: 9000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.staging.yaml"),
		[]byte("storage:\n  data_dir: staging_dir\n"), 0o644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("APP_ENV", "staging")

	cfg, err := Load()
	require.NoError(t, err)

	// 环境文件覆盖同名键，未覆盖的键保留基础值
	assert.Equal(t, "staging_dir", cfg.Storage.DataDir)
	assert.Equal(t, 9000, cfg.Server.HTTP.Port)
}

func TestPostgresConfigured(t *testing.T) {
	cfg := PostgresConfig{Enabled: true, Host: "localhost"}
	assert.True(t, cfg.Configured())

	cfg = PostgresConfig{Enabled: true, Host: "   "}
	assert.False(t, cfg.Configured())

	cfg = PostgresConfig{Enabled: false, Host: "localhost"}
	assert.False(t, cfg.Configured())
}
