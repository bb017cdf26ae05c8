package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, "auto", config.Security.APIKey)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, uint32(1), config.Runtime.MemoryPages)
	assert.Empty(t, config.Runtime.ProgramID)
	assert.NoError(t, config.Validate())
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64)

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})
}

func TestSaveLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	expected := &Config{
		DataDir:  "/custom/data",
		Port:     9000,
		Bind:     "0.0.0.0",
		Security: Security{APIKey: "test-api-key"},
		Logging:  Logging{Level: "debug"},
		Runtime: Runtime{
			ProgramID:   "9yyz5BqahoXPivcGdBKpgqt5dbTTLELNW8LkPRwWagqs",
			MemoryPages: 4,
		},
	}

	require.NoError(t, SaveConfig(expected, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, expected, loaded)
	assert.NoError(t, loaded.Validate())

	id, err := loaded.ProgramID()
	require.NoError(t, err)
	assert.Equal(t, expected.Runtime.ProgramID, id.String())
}

func TestLoadConfigKeepsDefaultsForMissingFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("port: 9100\n"), 0600))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 9100, loaded.Port)
	assert.Equal(t, "./data", loaded.DataDir)
	assert.Equal(t, uint32(1), loaded.Runtime.MemoryPages)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: [not a number"), 0600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	config, err := BootstrapConfig(configPath, "/srv/slots")
	require.NoError(t, err)

	assert.Equal(t, "/srv/slots", config.DataDir)
	assert.Len(t, config.Security.APIKey, 64)
	assert.NoError(t, config.Validate())
	assert.True(t, ConfigExists(configPath))

	_, err = config.ProgramID()
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad level", func(c *Config) { c.Logging.Level = "shouty" }},
		{"bad program id", func(c *Config) { c.Runtime.ProgramID = "not-base58!" }},
		{"zero pages", func(c *Config) { c.Runtime.MemoryPages = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigYAMLMarshalling(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	assert.Contains(t, string(data), "data_dir: ./data")
	assert.Contains(t, string(data), "memory_pages: 1")
	assert.Contains(t, string(data), "api_key: auto")
}

func TestGetDefaultConfigPath(t *testing.T) {
	assert.Contains(t, GetDefaultConfigPath(), "slotkit")
}
