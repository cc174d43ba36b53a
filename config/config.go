package config

import (
	"os"
	"strconv"
)

// Config holds the runtime settings read from the environment. gotenv.Load in
// main fills the environment from a .env file when one exists.
type Config struct {
	Addr        string
	Provider    string
	Model       string
	Temperature float32
	SecretsFile string
	JWTSecret   string
}

const (
	defaultAddr        = ":8080"
	defaultProvider    = "openai"
	defaultModel       = "gpt-3.5-turbo"
	defaultTemperature = 0.7
	defaultSecretsFile = "secrets.toml"
	defaultJWTSecret   = "dev-only-jwt-secret-change-in-production"
)

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Addr:        getenv("ADDR", defaultAddr),
		Provider:    getenv("LLM_PROVIDER", defaultProvider),
		Model:       getenv("LLM_MODEL", defaultModel),
		Temperature: getfloat("LLM_TEMPERATURE", defaultTemperature),
		SecretsFile: getenv("SECRETS_FILE", defaultSecretsFile),
		JWTSecret:   getenv("JWT_SECRET", defaultJWTSecret),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getfloat(key string, fallback float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return fallback
	}
	return float32(f)
}
