package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads config.yaml (searched in the given paths, then "." and
// "./configs") merged with APPLYFORGE_* environment overrides. A missing
// config file is fine; defaults plus environment carry a dev setup.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("APPLYFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Bare provider keys (the names the vendors document) win over the
	// prefixed form so a plain .env keeps working.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.Gemini.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.OpenAI.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.LLM.Anthropic.APIKey = key
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "applyforge")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("llm.default_backend", "gemini")
	v.SetDefault("llm.timeout_seconds", 5)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", "claude-3-5-haiku-latest")

	v.SetDefault("storage.dir", "./uploads")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
