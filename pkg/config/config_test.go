package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS", "")
}

func TestNewWritesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, defaultSettings(), c.Store)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "HeaderRow = 11")
	assert.Contains(t, string(b), "DateLayout")
	assert.Contains(t, string(b), "02/01")
}

func TestNewReadsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := strings.TrimSpace(`
ListenAddress = ':8080'
BatchSize = 3
Workers = 2
HeaderRow = 12
DataStartRow = 14
Timezone = 'Asia/Ho_Chi_Minh'
ReapplyFilter = false
MaxRetries = 4
RequestTimeoutSeconds = 90
`)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Store.ListenAddress)
	assert.Equal(t, 3, c.BatchOptions().Size)
	assert.Equal(t, 2, c.BatchOptions().Workers)
	assert.Equal(t, 12, c.Layout().HeaderRow)
	assert.Equal(t, 14, c.Layout().DataStartRow)
	assert.False(t, c.Store.ReapplyFilter)
	assert.Equal(t, 4, c.SheetsOptions().MaxRetries)
	assert.Equal(t, 60, c.SheetsOptions().RequestsPerMinute)
	assert.Equal(t, 90*time.Second, c.RequestTimeout())
	// untouched keys keep their defaults
	assert.Equal(t, "02/01", c.Store.DateLayout)

	opts, err := c.UpdaterOptions()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", opts.Location.String())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/key.json")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS", `{"type":"service_account"}`)
	path := filepath.Join(t.TempDir(), "config.toml")

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, ":4000", c.Store.ListenAddress)
	creds := c.Credentials()
	assert.Equal(t, "/secrets/key.json", creds.File)
	assert.Equal(t, `{"type":"service_account"}`, string(creds.JSON))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "service_account")
}

func TestNewRejectsInvalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "BatchSize = ["},
		{"zero batch", "BatchSize = 0"},
		{"header too high", "HeaderRow = 4\nDataStartRow = 5"},
		{"data above header", "DataStartRow = 11"},
		{"bad timezone", "Timezone = 'Mars/Olympus'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := New(path)
			assert.Error(t, err)
		})
	}
}
