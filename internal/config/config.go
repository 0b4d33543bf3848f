package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string    `json:"serverAddress"`
	DatabasePath  string    `json:"databasePath"`
	DatabaseURL   string    `json:"databaseUrl"`
	Collector     Collector `json:"collector"`
	Renderer      Renderer  `json:"renderer"`
	Security      Security  `json:"security"`
	Telemetry     Telemetry `json:"telemetry"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// Collector configuration for outbound content fetches
type Collector struct {
	FetchTimeoutSeconds  int    `json:"fetchTimeoutSeconds"`
	MaxConcurrentFetches int    `json:"maxConcurrentFetches"`
	UserAgent            string `json:"userAgent"`
}

// Renderer configuration for clip rendering
type Renderer struct {
	FFmpegBinary string `json:"ffmpegBinary"`
	OutputDir    string `json:"outputDir"`
	MaxAttempts  int    `json:"maxAttempts"`
}

// Security configuration
type Security struct {
	APIKeyHeader string `json:"apiKeyHeader"`
}

// Telemetry configuration for the OTLP exporters
type Telemetry struct {
	Enabled      bool   `json:"enabled"`
	OTLPEndpoint string `json:"otlpEndpoint"`
	Environment  string `json:"environment"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5000",
		DatabasePath:  "digicollect.db",
		Collector: Collector{
			FetchTimeoutSeconds:  15,
			MaxConcurrentFetches: 8,
			UserAgent:            "Mozilla/5.0 (compatible; DigiCollect/1.0)",
		},
		Renderer: Renderer{
			FFmpegBinary: "ffmpeg",
			OutputDir:    "./clips",
			MaxAttempts:  3,
		},
		Security: Security{
			APIKeyHeader: "X-API-Key",
		},
		Telemetry: Telemetry{
			Enabled:      true,
			OTLPEndpoint: "localhost:4317",
			Environment:  "development",
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if ua := os.Getenv("COLLECTOR_USER_AGENT"); ua != "" {
		cfg.Collector.UserAgent = ua
	}
	if timeout := os.Getenv("COLLECTOR_FETCH_TIMEOUT_SECONDS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			cfg.Collector.FetchTimeoutSeconds = secs
		}
	}
	if workers := os.Getenv("COLLECTOR_MAX_CONCURRENT_FETCHES"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Collector.MaxConcurrentFetches = n
		}
	}
	if binary := os.Getenv("RENDERER_FFMPEG_BINARY"); binary != "" {
		cfg.Renderer.FFmpegBinary = binary
	}
	if outDir := os.Getenv("RENDERER_OUTPUT_DIR"); outDir != "" {
		cfg.Renderer.OutputDir = outDir
	}
	if attempts := os.Getenv("RENDERER_MAX_ATTEMPTS"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil && n > 0 {
			cfg.Renderer.MaxAttempts = n
		}
	}
	if enabled := os.Getenv("OTEL_ENABLED"); enabled != "" {
		cfg.Telemetry.Enabled = enabled == "true" || enabled == "1"
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.Telemetry.OTLPEndpoint = endpoint
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Telemetry.Environment = env
	}

	// Ensure clip output directory exists
	if err := os.MkdirAll(cfg.Renderer.OutputDir, 0755); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(cfg.Renderer.OutputDir)
	if err != nil {
		return nil, err
	}
	cfg.Renderer.OutputDir = absPath

	return cfg, nil
}
