// Package config centralises all environment / file configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business‑logic
// layers receive already‑built values via dependency‑injection.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultModelName is the model loaded when MODEL_NAME is unset.
const DefaultModelName = "sentence-transformers/all-MiniLM-L6-v2"

// DefaultVertexModel is suggested when the vertex backend is selected without
// naming a publisher model.
const DefaultVertexModel = "text-embedding-005"

// Model backends.
const (
	BackendLocal  = "local"
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
	BackendVertex = "vertex"
	BackendHash   = "hash"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// Model
	ModelName       string `yaml:"model_name"`
	ModelBackend    string `yaml:"model_backend"`
	ModelDir        string `yaml:"model_dir"`
	ModelPath       string `yaml:"model_path"`
	ModelOnnxFile   string `yaml:"model_onnx_file"`
	ModelDimensions int    `yaml:"model_dimensions"`

	// External backends
	OllamaURL          string `yaml:"ollama_url"`
	OpenAIURL          string `yaml:"openai_url"`
	OpenAIAPIKey       string `yaml:"openai_api_key"`
	GCPProjectID       string `yaml:"gcp_project_id"`
	GCPLocation        string `yaml:"gcp_location"`
	GCPCredentialsFile string `yaml:"gcp_credentials_file"`

	// Server tuning; zero means no limit.
	ReadTimeout   time.Duration `yaml:"-"`
	WriteTimeout  time.Duration `yaml:"-"`
	ShutdownGrace time.Duration `yaml:"-"`
	BodyLimitMB   int           `yaml:"body_limit_mb"`

	// Observability
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`

	// Seconds as read from YAML; folded into the durations above.
	ReadTimeoutSec   int `yaml:"read_timeout_sec"`
	WriteTimeoutSec  int `yaml:"write_timeout_sec"`
	ShutdownGraceSec int `yaml:"shutdown_grace_sec"`

	// Warnings collects settings Load ignored. They are logged by the caller
	// once the logger is configured.
	Warnings []string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:             "0.0.0.0",
		Port:             "8000",
		ModelName:        DefaultModelName,
		ModelBackend:     BackendLocal,
		ModelDir:         "./models",
		ModelOnnxFile:    "onnx/model.onnx",
		ModelDimensions:  384,
		OllamaURL:        "http://localhost:11434",
		OpenAIURL:        "https://api.openai.com/v1/embeddings",
		GCPLocation:      "us-central1",
		ShutdownGraceSec: 10,
		LogLevel:         "info",
		LogFormat:        "text",
		MetricsEnabled:   true,
	}
}

// Load builds the Config from defaults, an optional YAML file named by
// CONFIG_FILE, an optional .env file, and the process environment, in that
// order of increasing precedence.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	// godotenv.Load() is a no‑op if .env doesn't exist.
	// It never overrides variables already present in the environment.
	_ = godotenv.Load()

	cfg.mergeEnv()
	cfg.ReadTimeout = seconds(cfg.ReadTimeoutSec)
	cfg.WriteTimeout = seconds(cfg.WriteTimeoutSec)
	cfg.ShutdownGrace = seconds(cfg.ShutdownGraceSec)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays values from a YAML file onto cfg.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeEnv overlays every recognised environment variable onto cfg.
func (c *Config) mergeEnv() {
	c.Host = getEnv("HOST", c.Host)
	c.Port = getEnv("PORT", c.Port)

	c.ModelName = getEnv("MODEL_NAME", c.ModelName)
	c.ModelBackend = strings.ToLower(getEnv("MODEL_BACKEND", c.ModelBackend))
	c.ModelDir = getEnv("MODEL_DIR", c.ModelDir)
	c.ModelPath = getEnv("MODEL_PATH", c.ModelPath)
	c.ModelOnnxFile = getEnv("MODEL_ONNX_FILE", c.ModelOnnxFile)
	c.ModelDimensions = c.getInt("MODEL_DIMENSIONS", c.ModelDimensions)

	c.OllamaURL = getEnv("OLLAMA_HOST", c.OllamaURL)
	c.OpenAIURL = getEnv("OPENAI_BASE_URL", c.OpenAIURL)
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.GCPProjectID = getEnv("GCP_PROJECT_ID", c.GCPProjectID)
	c.GCPLocation = getEnv("GCP_LOCATION", c.GCPLocation)
	c.GCPCredentialsFile = getEnv("GCP_CREDENTIALS_FILE", c.GCPCredentialsFile)

	c.ReadTimeoutSec = c.getInt("READ_TIMEOUT_SEC", c.ReadTimeoutSec)
	c.WriteTimeoutSec = c.getInt("WRITE_TIMEOUT_SEC", c.WriteTimeoutSec)
	c.ShutdownGraceSec = c.getInt("SHUTDOWN_GRACE_SEC", c.ShutdownGraceSec)
	c.BodyLimitMB = c.getInt("BODY_LIMIT_MB", c.BodyLimitMB)

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
	c.MetricsEnabled = c.getBool("METRICS_ENABLED", c.MetricsEnabled)
}

// Validate rejects settings the selected backend cannot start with.
func (c Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("model name must not be empty")
	}
	switch c.ModelBackend {
	case BackendLocal, BackendOllama:
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the %s backend", BackendOpenAI)
		}
	case BackendVertex:
		if c.GCPProjectID == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required for the %s backend", BackendVertex)
		}
		if c.ModelName == DefaultModelName {
			return fmt.Errorf("MODEL_NAME must name a Vertex AI embedding model (e.g. %s) for the %s backend",
				DefaultVertexModel, BackendVertex)
		}
	case BackendHash:
		if c.ModelDimensions <= 0 {
			return fmt.Errorf("MODEL_DIMENSIONS must be positive for the %s backend", BackendHash)
		}
	default:
		return fmt.Errorf("unknown model backend %q", c.ModelBackend)
	}
	return nil
}

// Addr is the listen address, host:port.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt reads an integer from env, falling back to defaultVal on absence or
// parse failure. Parse failures are recorded in c.Warnings.
func (c *Config) getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid integer %s=%q; using default %d", key, v, defaultVal))
	}
	return defaultVal
}

// getBool reads a boolean from env, falling back to defaultVal.
func (c *Config) getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid boolean %s=%q; using default %t", key, v, defaultVal))
	}
	return defaultVal
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
