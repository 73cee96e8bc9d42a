package config

import (
	"errors"

	"github.com/spf13/viper"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

type GeneralConfig struct {
	HTTPPort string
	HTTPHost string
	Env      string
	LogLevel string
}

func (gc *GeneralConfig) Load(v *viper.Viper) error {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("HTTP_HOST", "localhost")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "INFO")

	gc.HTTPPort = v.GetString("HTTP_PORT")
	gc.HTTPHost = v.GetString("HTTP_HOST")
	gc.Env = v.GetString("ENV")
	gc.LogLevel = v.GetString("LOG_LEVEL")
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	return nil
}

// NewViper returns a viper instance bound to the process environment. Values
// come from env vars (optionally seeded by godotenv at startup).
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}
