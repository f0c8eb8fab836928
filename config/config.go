package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=7001
//	DATA_DIR=./data
//	INDEX_FILE=./web/index.html
//	ANTHROPIC_API_KEY=sk-ant-...
//	LLM_MODEL=claude-3-5-haiku-latest
//	LLM_MAX_TOKENS=1024
type Config struct {
	Server ServerConfig // HTTP server configuration
	Data   DataConfig   // CSV dataset location
	LLM    LLMConfig    // External language model settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      string // TCP port the HTTP server listens on (e.g., "7001")
	IndexFile string // Path of the static chat page served at /
}

// DataConfig points at the folder holding trades.csv and holdings.csv.
type DataConfig struct {
	Dir string
}

// LLMConfig defines the external language model used by the planner and
// explainer.
//
// APIKey may be empty: the service starts in degraded mode and the chat
// endpoints return 503 instead of the process terminating.
type LLMConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// AppConfig is the globally accessible configuration instance, populated
// once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "7001")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("INDEX_FILE", "./web/index.html")
	viper.SetDefault("LLM_MODEL", "claude-3-5-haiku-latest")
	viper.SetDefault("LLM_MAX_TOKENS", 1024)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:      viper.GetString("SERVER_PORT"),
			IndexFile: viper.GetString("INDEX_FILE"),
		},
		Data: DataConfig{
			Dir: viper.GetString("DATA_DIR"),
		},
		LLM: LLMConfig{
			APIKey:    viper.GetString("ANTHROPIC_API_KEY"),
			Model:     viper.GetString("LLM_MODEL"),
			MaxTokens: viper.GetInt64("LLM_MAX_TOKENS"),
		},
	}

	validateConfig()
}

// validateConfig terminates the application when structurally required
// fields are missing. The API key is deliberately not required here:
// without it the service runs degraded instead of refusing to start.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Data.Dir == "" {
		missing = append(missing, "DATA_DIR")
	}
	if AppConfig.LLM.Model == "" {
		missing = append(missing, "LLM_MODEL")
	}
	if AppConfig.LLM.MaxTokens <= 0 {
		missing = append(missing, "LLM_MAX_TOKENS")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
