// internal/common/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestResolve(t *testing.T) {
	env := mapLookup(map[string]string{EnvMondayAPIKey: "from-env"})

	assert.Equal(t, "explicit", Resolve("explicit", env, EnvMondayAPIKey))
	assert.Equal(t, "from-env", Resolve("", env, EnvMondayAPIKey))
	assert.Equal(t, "", Resolve("", env, EnvGeminiAPIKey))
	assert.Equal(t, "", Resolve("", nil, EnvGeminiAPIKey))
}

func TestResolveCredentials(t *testing.T) {
	env := mapLookup(map[string]string{
		EnvMondayAPIKey:      "m-env",
		EnvGeminiAPIKey:      "g-env",
		EnvDealsBoardID:      "111",
		EnvWorkOrdersBoardID: "222",
	})

	creds := ResolveCredentials(Overrides{GeminiAPIKey: "g-req", WorkOrdersBoardID: "999"}, env)
	assert.Equal(t, Credentials{
		MondayAPIKey:      "m-env",
		GeminiAPIKey:      "g-req",
		DealsBoardID:      "111",
		WorkOrdersBoardID: "999",
	}, creds)
}

func TestEnvLookup_EnvironmentBeatsFile(t *testing.T) {
	cfg := &Config{
		Monday: MondayConfig{APIKey: "file-key", DealsBoardID: "file-deals"},
	}
	t.Setenv(EnvDealsBoardID, "env-deals")
	t.Setenv(EnvMondayAPIKey, "")

	lookup := EnvLookup(cfg)

	v, ok := lookup(EnvDealsBoardID)
	assert.True(t, ok)
	assert.Equal(t, "env-deals", v)

	v, ok = lookup(EnvMondayAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "file-key", v)

	_, ok = lookup("UNRELATED")
	assert.False(t, ok)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_BI_GEMINI_KEY", "g-from-placeholder")
	t.Setenv(EnvMondayAPIKey, "")
	t.Setenv(EnvDealsBoardID, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  name: bi-agent-test
server:
  address: ":9001"
monday:
  page_limit: 50
  api_key: ${TEST_BI_UNSET_VARIABLE}
  deals_board_id: "123"
genai:
  api_key: ${TEST_BI_GEMINI_KEY}
logging:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "bi-agent-test", cfg.App.Name)
	assert.Equal(t, ":9001", cfg.Server.Address)
	assert.Equal(t, 50, cfg.Monday.PageLimit)
	assert.Equal(t, "123", cfg.Monday.DealsBoardID)
	assert.Equal(t, "", cfg.Monday.APIKey)
	assert.Equal(t, "g-from-placeholder", cfg.GenAI.APIKey)
	assert.Equal(t, "console", cfg.Logging.Format)

	// defaults
	assert.Equal(t, "https://api.monday.com/v2", cfg.Monday.APIURL)
	assert.Equal(t, "2023-10", cfg.Monday.APIVersion)
	assert.Equal(t, 30000, cfg.Monday.Timeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.GenAI.Model)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "bi-agent-test", cfg.Observability.ServiceName)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o600))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")

	_, err = LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestOverrideEmptyConfig(t *testing.T) {
	cfg := &Config{Monday: MondayConfig{APIKey: "kept"}}
	overrideEmptyConfig(cfg, mapLookup(map[string]string{
		EnvMondayAPIKey:      "ignored",
		EnvWorkOrdersBoardID: "555",
		EnvGeminiAPIKey:      "g",
	}))

	assert.Equal(t, "kept", cfg.Monday.APIKey)
	assert.Equal(t, "555", cfg.Monday.WorkOrdersBoardID)
	assert.Equal(t, "g", cfg.GenAI.APIKey)
	assert.Equal(t, "", cfg.Monday.DealsBoardID)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
