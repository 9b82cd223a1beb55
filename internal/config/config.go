package config

import "fmt"

// Config is the main application configuration struct. It is built once
// in main and passed explicitly into constructors; nothing in this
// package keeps mutable global state.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database PostgresConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// LLMConfig configures the generation gateway. DefaultBackend is the
// process-wide default read once at startup; per-call preferences
// override it.
type LLMConfig struct {
	DefaultBackend string        `mapstructure:"default_backend"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Gemini         BackendConfig `mapstructure:"gemini"`
	OpenAI         BackendConfig `mapstructure:"openai"`
	Anthropic      BackendConfig `mapstructure:"anthropic"`
}

// BackendConfig holds one backend's credential. An empty APIKey means
// the backend is unavailable.
type BackendConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type StorageConfig struct {
	// Directory where uploaded CVs are written.
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}
