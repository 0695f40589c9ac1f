package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "./artifacts", cfg.ArtifactsDir)
	assert.Equal(t, 120, cfg.MaxRequestsPerMin)
	assert.Nil(t, cfg.PiTrainOverride)
	assert.Nil(t, cfg.PiDeployDefault)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ARTIFACTS_DIR", "/models/v3")
	t.Setenv("LUNG_CANCER_CSV", "/data/cohort.csv")
	t.Setenv("PI_DEPLOY_DEFAULT", "0.02")
	t.Setenv("PI_TRAIN_OVERRIDE", "0.15")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("MAX_REQUESTS_PER_MIN", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/models/v3", cfg.ArtifactsDir)
	assert.Equal(t, "/data/cohort.csv", cfg.TrainingCSV)
	require.NotNil(t, cfg.PiDeployDefault)
	assert.Equal(t, 0.02, *cfg.PiDeployDefault)
	require.NotNil(t, cfg.PiTrainOverride)
	assert.Equal(t, 0.15, *cfg.PiTrainOverride)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.MaxRequestsPerMin)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8443"
  rateLimitPerMin: 60
model:
  artifactsDir: /opt/model
  piDeployDefault: 0.05
system:
  dataDir: /var/lib/lungrisk
`), 0644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8443", cfg.Port)
	assert.Equal(t, "/opt/model", cfg.ArtifactsDir)
	assert.Equal(t, "/var/lib/lungrisk", cfg.DataDir)
	assert.Equal(t, 60, cfg.MaxRequestsPerMin)
	require.NotNil(t, cfg.PiDeployDefault)
	assert.Equal(t, 0.05, *cfg.PiDeployDefault)
}

func TestEnvBeatsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8443\"\n"), 0644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7777")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Port)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
