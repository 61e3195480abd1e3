package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	apperrors "brewgraph/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Catalog (BadgerDB document store)
	CatalogPath     string // empty means in-memory
	CatalogCSVPath  string
	SearchLimit     int

	// Discord
	DiscordBotToken string
	CommandPrefix   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		Neo4jURI:        getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:       getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:   getEnv("NEO4J_PASSWORD", "password"),
		CatalogPath:     getEnv("CATALOG_PATH", "data/catalog"),
		CatalogCSVPath:  getEnv("CATALOG_CSV_PATH", "data/beers.csv"),
		SearchLimit:     getEnvInt("SEARCH_LIMIT", 10),
		DiscordBotToken: getEnv("DISCORD_BOT_TOKEN", ""),
		CommandPrefix:   getEnv("COMMAND_PREFIX", "!"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigInvalid(err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("SEARCH_LIMIT must be positive")
	}
	// Discord token is optional: the HTTP server and loader run without it
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
