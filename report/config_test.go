package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"email": {
			"email_server": "smtp.example.com",
			"email_address": "bot@example.com",
			"email_password": "hunter2"
		}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", cfg.Server)
	assert.Equal(t, "bot@example.com", cfg.Address)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, 587, cfg.Port)
}

func TestLoadConfigPortOverride(t *testing.T) {
	path := writeConfig(t, `{
		"email": {
			"email_server": "smtp.example.com",
			"email_address": "bot@example.com",
			"email_port": 25
		}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Port)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, `{
		"email": {
			"email_server": "smtp.example.com",
			"email_address": "bot@example.com",
			"email_password": "from-file",
			"email_port": 25
		}
	}`)
	t.Setenv("AUTOMATA_EMAIL_EMAIL_PASSWORD", "from-env")
	t.Setenv("AUTOMATA_EMAIL_EMAIL_PORT", "2525")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Password)
	assert.Equal(t, 2525, cfg.Port)
	assert.Equal(t, "smtp.example.com", cfg.Server)
}

func TestLoadConfigMissingSection(t *testing.T) {
	path := writeConfig(t, `{"smtp": {}}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email section")
}

func TestLoadConfigMissingServer(t *testing.T) {
	path := writeConfig(t, `{"email": {"email_address": "bot@example.com"}}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email_server is required")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
