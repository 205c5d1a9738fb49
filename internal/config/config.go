package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database      DatabaseConfig
	JWT           JWTConfig
	App           AppConfig
	OAuth2Discord OAuth2DiscordConfig
	Webhook       WebhookConfig
	FiveM         FiveMConfig
	Storage       StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

type OAuth2DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// WebhookConfig points at the outbound Discord notification channel.
// Empty URL disables notifications.
type WebhookConfig struct {
	DiscordURL string
}

// FiveMConfig guards the game-server integration endpoints.
type FiveMConfig struct {
	APIKey string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fichaje"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// OAuth2 Discord configuration
	config.OAuth2Discord = OAuth2DiscordConfig{
		ClientID:     getEnv("AUTH_DISCORD_ID", ""),
		ClientSecret: getEnv("AUTH_DISCORD_SECRET", ""),
		RedirectURL:  getEnv("AUTH_DISCORD_REDIRECT_URL", ""),
		Scopes:       getEnvSlice("AUTH_DISCORD_SCOPES", "identify,email"),
	}

	config.Webhook = WebhookConfig{
		DiscordURL: getEnv("DISCORD_WEBHOOK_URL", ""),
	}

	config.FiveM = FiveMConfig{
		APIKey: getEnv("FIVEM_API_KEY", ""),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "/uploads"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.OAuth2Discord.ClientID == "" {
		return fmt.Errorf("AUTH_DISCORD_ID is required")
	}
	if c.OAuth2Discord.ClientSecret == "" {
		return fmt.Errorf("AUTH_DISCORD_SECRET is required")
	}
	if c.OAuth2Discord.RedirectURL == "" {
		return fmt.Errorf("AUTH_DISCORD_REDIRECT_URL is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
