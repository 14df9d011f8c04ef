package initialization

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	HTTPAddress string

	// Declarative documents consumed by the engine
	CatalogPath   string
	HierarchyPath string

	// Embedding provider
	OpenAIAPIKey   string
	EmbeddingModel string

	// Session context store; empty RedisAddr means in-memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Engine tuning
	MinConfidence   float64
	DefaultLanguage string
}

// LoadConfig loads configuration from an optional yaml file and environment
// variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("INTENTCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"HTTPAddress":     "HTTP_ADDRESS",
		"CatalogPath":     "CATALOG_PATH",
		"HierarchyPath":   "HIERARCHY_PATH",
		"OpenAIAPIKey":    "OPENAI_API_KEY",
		"EmbeddingModel":  "EMBEDDING_MODEL",
		"RedisAddr":       "REDIS_ADDR",
		"RedisPassword":   "REDIS_PASSWORD",
		"RedisDB":         "REDIS_DB",
		"SessionTTL":      "SESSION_TTL",
		"MinConfidence":   "MIN_CONFIDENCE",
		"DefaultLanguage": "DEFAULT_LANGUAGE",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("intentcore")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.intentcore")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTPAddress", ":8080")
	v.SetDefault("CatalogPath", "config/intents.yaml")
	v.SetDefault("HierarchyPath", "config/hierarchy.yaml")
	v.SetDefault("EmbeddingModel", "text-embedding-3-small")
	v.SetDefault("SessionTTL", "30m")
	v.SetDefault("DefaultLanguage", "en")
}
