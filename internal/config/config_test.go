package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "ATG_MODEL", "ATG_TEMPERATURE",
		"ATG_FRAMEWORK", "ATG_OUTPUT_DIR", "ATG_LIBRARY", "ATG_MIN_CONFIDENCE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 0.8, cfg.Keywords.MinConfidence)
	assert.Equal(t, "", cfg.Keywords.LibraryPath)
	assert.Equal(t, "robot", cfg.Scaffold.Framework)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Scaffold, cfg.Scaffold)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
llm:
  provider: gemini
  model: gemini-2.5-flash
  temperature: 0.2
keywords:
  library_path: /tmp/lib.json
  min_confidence: 0.9
scaffold:
  framework: pytest
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, "/tmp/lib.json", cfg.Keywords.LibraryPath)
	assert.Equal(t, 0.9, cfg.Keywords.MinConfidence)
	assert.Equal(t, "pytest", cfg.Scaffold.Framework)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not: closed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("OPENAI_API_KEY sets provider and key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "sk-test", cfg.LLM.APIKey)
		assert.Equal(t, "openai", cfg.LLM.Provider)
	})

	t.Run("GEMINI_API_KEY wins over OPENAI_API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("GEMINI_API_KEY", "gm-test")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gm-test", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("ATG settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATG_MODEL", "gpt-4o-mini")
		t.Setenv("ATG_TEMPERATURE", "0.3")
		t.Setenv("ATG_FRAMEWORK", "pytest")
		t.Setenv("ATG_LIBRARY", "/tmp/kw.json")
		t.Setenv("ATG_MIN_CONFIDENCE", "0.95")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.Equal(t, 0.3, cfg.LLM.Temperature)
		assert.Equal(t, "pytest", cfg.Scaffold.Framework)
		assert.Equal(t, "/tmp/kw.json", cfg.Keywords.LibraryPath)
		assert.Equal(t, 0.95, cfg.Keywords.MinConfidence)
	})

	t.Run("invalid ATG_TEMPERATURE ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ATG_TEMPERATURE", "warm")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 0.7, cfg.LLM.Temperature)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.LLM.APIKey = "sk-test"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := valid()
		cfg.LLM.APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad provider", func(t *testing.T) {
		cfg := valid()
		cfg.LLM.Provider = "watson"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad framework", func(t *testing.T) {
		cfg := valid()
		cfg.Scaffold.Framework = "cucumber"
		assert.Error(t, cfg.Validate())
	})

	t.Run("confidence out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Keywords.MinConfidence = 1.5
		assert.Error(t, cfg.Validate())
	})
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Keywords.LibraryPath = "/var/lib/atg/keywords.json"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Keywords.LibraryPath, loaded.Keywords.LibraryPath)
}

func TestGetLLMTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())

	cfg.LLM.Timeout = "30s"
	assert.Equal(t, 30*time.Second, cfg.GetLLMTimeout())

	cfg.LLM.Timeout = "soon"
	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())
}
