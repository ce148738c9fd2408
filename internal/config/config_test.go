package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"code_practice_backend/internal/grading"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
database:
  host: localhost
  port: 3306
  dbname: practice
jwt:
  secret: test-secret
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "practice", cfg.Database.DBName)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, grading.DefaultPolicy(), cfg.Grading.Policy())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), ConfigFile())
	assert.Equal(t, "logs/practice.log", cfg.Log.File)
	assert.Equal(t, 5, cfg.Log.MaxBackups)
	assert.Empty(t, cfg.Log.Level)
}

func TestLoadConfigGradingOverride(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: test-secret
grading:
  partial_correct_ratio: 0.5
  correct_similarity: 95
  partial_similarity: 40
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	p := cfg.Grading.Policy()
	assert.Equal(t, 0.5, p.PartialCorrectRatio)
	assert.Equal(t, 95, p.CorrectSimilarity)
	assert.Equal(t, 40, p.PartialSimilarity)
}

func TestLoadConfigRejectsInvalidGrading(t *testing.T) {
	dir := writeConfig(t, `
grading:
  correct_similarity: 40
  partial_similarity: 60
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, grading.ErrInvalidPolicy)
}

func TestLoadConfigShortSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
`)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestReloadPicksUpChanges(t *testing.T) {
	dir := writeConfig(t, `
grading:
  correct_similarity: 90
`)
	_, err := LoadConfig(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
grading:
  correct_similarity: 80
`), 0o644))

	cfg, err := Reload()
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Grading.CorrectSimilarity)
}
