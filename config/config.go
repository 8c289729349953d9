package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// JwtKey signs and verifies every issued token. Populated by Load.
var JwtKey []byte

// Load reads settings from the environment (optionally seeded from a .env
// file) and fills the package globals. Must run before ConnectDB.
func Load() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")

	viper.BindEnv("DB_URL")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("PORT")

	secret := viper.GetString("JWT_SECRET")
	if secret == "" {
		slog.Warn("JWT_SECRET is not set, using an insecure development key")
		secret = "dev-secret-do-not-use"
	}
	JwtKey = []byte(secret)
}

// Port returns the HTTP listen port.
func Port() string {
	return viper.GetString("PORT")
}
