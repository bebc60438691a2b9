// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Auth   AuthConfig
	AI     AIConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk storage locations.
type DataConfig struct {
	// BasePath is the root for all persisted data; the Badger store,
	// the search index, and cached covers live beneath it.
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 60s, narration responses can be large)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes)
	AccessTokenKey []byte
	// AccessTokenDuration is the token lifetime, e.g. 24h
	AccessTokenDuration time.Duration
}

// AIConfig holds configuration for the OpenAI-compatible gateway.
type AIConfig struct {
	BaseURL             string
	APIKey              string
	ChatModel           string
	EmbeddingModel      string
	EmbeddingDimensions int
	TTSModel            string
	STTModel            string
	// RequestTimeout bounds a single upstream call (default: 60s)
	RequestTimeout time.Duration
	// RequestsPerSecond throttles outbound calls (default: 2)
	RequestsPerSecond float64
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for persisted data")
	serverName := flag.String("server-name", "", "Name for the server")

	// Auth flags
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 24h)")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// AI flags
	aiBaseURL := flag.String("ai-base-url", "", "Base URL of the OpenAI-compatible gateway")
	aiTimeout := flag.String("ai-timeout", "", "Upstream AI request timeout (default: 60s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	// Real environment variables always win over file values.
	_ = godotenv.Load(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "BookBook Server"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Auth: AuthConfig{
			AccessTokenKey: nil, // Will be set by auth.LoadOrGenerateKey in main
		},
		AI: AIConfig{
			BaseURL:             getConfigValue(*aiBaseURL, "AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:              getConfigValue("", "AI_API_KEY", ""),
			ChatModel:           getConfigValue("", "AI_CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingModel:      getConfigValue("", "AI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: getIntConfigValue("", "AI_EMBEDDING_DIMENSIONS", 1536),
			TTSModel:            getConfigValue("", "AI_TTS_MODEL", "gpt-4o-mini-tts"),
			STTModel:            getConfigValue("", "AI_STT_MODEL", "whisper-1"),
			RequestsPerSecond:   getFloatConfigValue("", "AI_REQUESTS_PER_SECOND", 2),
		},
	}

	// Parse auth duration.
	accessDurationStr := getConfigValue(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "24h")
	accessDuration, err := time.ParseDuration(accessDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid access token duration %q: %w", accessDurationStr, err)
	}
	cfg.Auth.AccessTokenDuration = accessDuration

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	aiTimeoutStr := getConfigValue(*aiTimeout, "AI_REQUEST_TIMEOUT", "60s")
	aiTimeoutDuration, err := time.ParseDuration(aiTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AI request timeout %q: %w", aiTimeoutStr, err)
	}
	cfg.AI.RequestTimeout = aiTimeoutDuration

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.AI.BaseURL == "" {
		return errors.New("AI base URL is required")
	}
	if c.AI.EmbeddingDimensions <= 0 {
		return fmt.Errorf("invalid embedding dimensions: %d", c.AI.EmbeddingDimensions)
	}
	if c.AI.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid AI requests per second: %v", c.AI.RequestsPerSecond)
	}

	// AI API key may legitimately be empty for local gateways.

	return nil
}

// StorePath returns the directory for the Badger store.
func (c *Config) StorePath() string {
	return filepath.Join(c.Data.BasePath, "store")
}

// SearchIndexPath returns the directory for the Bleve index.
func (c *Config) SearchIndexPath() string {
	return filepath.Join(c.Data.BasePath, "search")
}

// CoversPath returns the directory for downloaded cover images.
func (c *Config) CoversPath() string {
	return filepath.Join(c.Data.BasePath, "covers")
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/BookBook/data if not specified.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "BookBook", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}
