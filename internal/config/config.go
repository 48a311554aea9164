package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	APIPort      string `json:"api_port"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	DatabaseURL  string `json:"database_url"`  // Postgres DSN for the remote store
	DatabasePath string `json:"database_path"` // local sqlite fallback
	IMAPHost     string `json:"imap_host"`
	IMAPPort     int    `json:"imap_port"`
	AIProvider   string `json:"ai_provider"`
	AIAPIKey     string `json:"ai_api_key"`
	AIModel      string `json:"ai_model"`
	AIBaseURL    string `json:"ai_base_url"`
	CORSOrigins  string `json:"cors_origins"` // comma separated, * means all
}

// Default configuration values
const (
	DefaultAPIPort      = "8080"
	DefaultLogLevel     = "INFO"
	DefaultDataDir      = "data"
	DefaultDatabasePath = "data/mailbrief.db"
	DefaultIMAPHost     = "imap.gmail.com"
	DefaultIMAPPort     = 993
	DefaultAIProvider   = "groq"
	DefaultAIModel      = "mixtral-8x7b-32768"
	DefaultCORSOrigins  = "*"
)

// Load loads configuration from environment variables and config file
// Priority: Environment variables > Config file > Default values
func Load() (*Config, error) {
	cfg := &Config{
		APIPort:      DefaultAPIPort,
		LogLevel:     DefaultLogLevel,
		DataDir:      DefaultDataDir,
		DatabasePath: DefaultDatabasePath,
		IMAPHost:     DefaultIMAPHost,
		IMAPPort:     DefaultIMAPPort,
		AIProvider:   DefaultAIProvider,
		AIModel:      DefaultAIModel,
		CORSOrigins:  DefaultCORSOrigins,
	}

	if err := cfg.loadFromFile(); err != nil {
		return nil, err
	}

	cfg.loadFromEnv()

	return cfg, nil
}

// loadFromFile loads configuration from an optional config.json file
func (c *Config) loadFromFile() error {
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := json.Unmarshal(data, c); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if val := os.Getenv("MAILBRIEF_API_PORT"); val != "" {
		c.APIPort = val
	}
	if val := os.Getenv("MAILBRIEF_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("MAILBRIEF_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("MAILBRIEF_DATABASE_URL"); val != "" {
		c.DatabaseURL = val
	}
	if val := os.Getenv("MAILBRIEF_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("MAILBRIEF_IMAP_HOST"); val != "" {
		c.IMAPHost = val
	}
	if val := os.Getenv("MAILBRIEF_IMAP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.IMAPPort = port
		}
	}
	if val := os.Getenv("MAILBRIEF_AI_PROVIDER"); val != "" {
		c.AIProvider = val
	}
	if val := os.Getenv("MAILBRIEF_AI_API_KEY"); val != "" {
		c.AIAPIKey = val
	}
	// Deployments that predate the MAILBRIEF_ prefix configure the key as GROQ_API_KEY
	if c.AIAPIKey == "" {
		c.AIAPIKey = os.Getenv("GROQ_API_KEY")
	}
	if val := os.Getenv("MAILBRIEF_AI_MODEL"); val != "" {
		c.AIModel = val
	}
	if val := os.Getenv("MAILBRIEF_AI_BASE_URL"); val != "" {
		c.AIBaseURL = val
	}
	if val := os.Getenv("MAILBRIEF_CORS_ORIGINS"); val != "" {
		c.CORSOrigins = val
	}
}

// Save saves the current configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
