// internal/common/config/resolve.go
package config

import "os"

// Environment variable names for the per-request credentials.
const (
	EnvMondayAPIKey      = "MONDAY_API_KEY"
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvDealsBoardID      = "DEALS_BOARD_ID"
	EnvWorkOrdersBoardID = "WORK_ORDERS_BOARD_ID"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Resolve returns override when it is non-empty, otherwise whatever lookup
// yields for envKey.
func Resolve(override string, lookup LookupFunc, envKey string) string {
	if override != "" {
		return override
	}
	if lookup == nil {
		return ""
	}
	val, _ := lookup(envKey)
	return val
}

// Overrides are the optional values a caller may send with a query.
type Overrides struct {
	MondayAPIKey      string
	GeminiAPIKey      string
	DealsBoardID      string
	WorkOrdersBoardID string
}

// Credentials are the effective values for one request.
type Credentials struct {
	MondayAPIKey      string
	GeminiAPIKey      string
	DealsBoardID      string
	WorkOrdersBoardID string
}

// ResolveCredentials resolves all four values once.
func ResolveCredentials(o Overrides, lookup LookupFunc) Credentials {
	return Credentials{
		MondayAPIKey:      Resolve(o.MondayAPIKey, lookup, EnvMondayAPIKey),
		GeminiAPIKey:      Resolve(o.GeminiAPIKey, lookup, EnvGeminiAPIKey),
		DealsBoardID:      Resolve(o.DealsBoardID, lookup, EnvDealsBoardID),
		WorkOrdersBoardID: Resolve(o.WorkOrdersBoardID, lookup, EnvWorkOrdersBoardID),
	}
}

// EnvLookup consults the process environment first and then the values read
// from the config file, so a config-file default sits under the environment.
func EnvLookup(cfg *Config) LookupFunc {
	fileValues := map[string]string{}
	if cfg != nil {
		fileValues[EnvMondayAPIKey] = cfg.Monday.APIKey
		fileValues[EnvGeminiAPIKey] = cfg.GenAI.APIKey
		fileValues[EnvDealsBoardID] = cfg.Monday.DealsBoardID
		fileValues[EnvWorkOrdersBoardID] = cfg.Monday.WorkOrdersBoardID
	}
	return func(key string) (string, bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val, true
		}
		val, ok := fileValues[key]
		if !ok || val == "" {
			return "", false
		}
		return val, true
	}
}
