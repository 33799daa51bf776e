// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Monday        MondayConfig        `mapstructure:"monday"`
	GenAI         GenAIConfig         `mapstructure:"genai"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address            string   `mapstructure:"address"`
	ReadTimeout        int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout       int      `mapstructure:"write_timeout"` // milliseconds
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// --- External Services ---

// MondayConfig holds the board service settings. APIKey and the board ids are
// process-wide defaults; requests may override them.
type MondayConfig struct {
	APIURL            string `mapstructure:"api_url"`
	APIVersion        string `mapstructure:"api_version"`
	PageLimit         int    `mapstructure:"page_limit"`
	Timeout           int    `mapstructure:"timeout"` // milliseconds
	APIKey            string `mapstructure:"api_key"`
	DealsBoardID      string `mapstructure:"deals_board_id"`
	WorkOrdersBoardID string `mapstructure:"work_orders_board_id"`
}

type GenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
