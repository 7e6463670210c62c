package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	LLM struct {
		Provider  string
		Model     string
		APIKey    string
		BaseURL   string
		MaxTokens int
		Timeout   time.Duration
	}
	Copilot struct {
		DefaultLanguage string
	}
	API struct {
		// Tokens are the bearer tokens accepted by /api/v1. Empty leaves the API open.
		Tokens []string
	}
}

// Load reads config from a .env file, the environment (COPILOT_ prefix) and an
// optional joe-copilot.yaml in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("COPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("joe-copilot")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("copilot.default_language", "English")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.LLM.Provider = strings.ToLower(v.GetString("llm.provider"))
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.APIKey = v.GetString("llm.api_key")
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	cfg.Copilot.DefaultLanguage = v.GetString("copilot.default_language")
	cfg.API.Tokens = splitList(v.GetStringSlice("api.tokens"))

	timeout, err := time.ParseDuration(v.GetString("llm.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid COPILOT_LLM_TIMEOUT: %w", err)
	}
	cfg.LLM.Timeout = timeout

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("COPILOT_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("COPILOT_DB_DSN is required")
	}
	if cfg.LLM.MaxTokens <= 0 {
		return nil, fmt.Errorf("COPILOT_LLM_MAX_TOKENS must be positive")
	}
	if cfg.LLM.Provider != "" && cfg.LLM.Provider != "openai-compatible" && cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("COPILOT_LLM_API_KEY is required for provider %q", cfg.LLM.Provider)
	}

	return cfg, nil
}

// splitList flattens a YAML list or a comma separated environment value.
func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, f := range strings.Split(item, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}
