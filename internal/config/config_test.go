package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:5000/api", c.BaseURL)
	assert.Equal(t, "crewdesk.db", c.DatabasePath)
	assert.Equal(t, 10*time.Second, c.RefreshTimeout)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:5000/api", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RefreshTimeout)
}
