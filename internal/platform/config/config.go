// Package config loads process-level settings: where data files live, which
// port to listen on, and the session/security tuning knobs. Domain pricing
// parameters are not here — those belong to the pricing module and its own
// key=value store.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort            = "8080"
	defaultDataDir         = "./data"
	defaultSessionIdle     = 30 * time.Minute
	defaultSessionsPerUser = 3
	defaultResetTokenTTL   = 15 * time.Minute
)

// App holds process configuration sourced from an optional TOML file and
// environment variables. Environment values win over file values.
type App struct {
	Port             string        `mapstructure:"port"`
	DataDir          string        `mapstructure:"data_dir"`
	SessionIdle      time.Duration `mapstructure:"session_idle"`
	SessionsPerUser  int           `mapstructure:"sessions_per_user"`
	ResetTokenSecret string        `mapstructure:"reset_token_secret"`
	ResetTokenTTL    time.Duration `mapstructure:"reset_token_ttl"`
}

// Load reads .env (best-effort), then printmill.toml if present, then the
// environment, and returns a fully defaulted App.
func Load() App {
	// Local development convenience; production injects real env vars.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile("printmill.toml")
	v.SetDefault("port", defaultPort)
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("session_idle", defaultSessionIdle)
	v.SetDefault("sessions_per_user", defaultSessionsPerUser)
	v.SetDefault("reset_token_ttl", defaultResetTokenTTL)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				log.Printf("warning: could not read printmill.toml: %v", err)
			}
		}
	}

	var cfg App
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("warning: invalid printmill.toml, using defaults: %v", err)
		cfg = App{
			Port:            defaultPort,
			DataDir:         defaultDataDir,
			SessionIdle:     defaultSessionIdle,
			SessionsPerUser: defaultSessionsPerUser,
			ResetTokenTTL:   defaultResetTokenTTL,
		}
	}

	if p := os.Getenv("APP_PORT"); p != "" {
		cfg.Port = p
	}
	if d := os.Getenv("DATA_DIR"); d != "" {
		cfg.DataDir = d
	}
	if s := os.Getenv("RESET_TOKEN_SECRET"); s != "" {
		cfg.ResetTokenSecret = s
	}

	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = defaultSessionIdle
	}
	if cfg.SessionsPerUser <= 0 {
		cfg.SessionsPerUser = defaultSessionsPerUser
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = defaultResetTokenTTL
	}
	if cfg.ResetTokenSecret == "" {
		log.Print("warning: RESET_TOKEN_SECRET is not set, password reset tokens use a dev secret")
		cfg.ResetTokenSecret = "dev-only-secret"
	}

	return cfg
}
