package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Token    TokenConfig
	Seed     SeedConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedHosts   []string
	TrustedProxies []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// TokenConfig holds redemption-token configuration
type TokenConfig struct {
	ValidityHours  int // window between issue and expiry
	CodeLength     int
	MaxBatchSize   int
	MaxCodeRetries int
}

// SeedConfig holds startup seeding configuration
type SeedConfig struct {
	SuperAdminUsername string
	SuperAdminPassword string
}

// Validity returns the token validity window as a duration
func (c TokenConfig) Validity() time.Duration {
	return time.Duration(c.ValidityHours) * time.Hour
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "5000")
	viper.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "spinwheel")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Token.ValidityHours", 48)
	viper.SetDefault("Token.CodeLength", 12)
	viper.SetDefault("Token.MaxBatchSize", 100)
	viper.SetDefault("Token.MaxCodeRetries", 10)
	viper.SetDefault("Seed.SuperAdminUsername", "superadmin")
	viper.SetDefault("LogLevel", "info")
}
