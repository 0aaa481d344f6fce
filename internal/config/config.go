// Package config loads service settings from an optional config.yaml
// with environment overrides.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress string `mapstructure:"server_address"`
	PostgresConn  string `mapstructure:"postgres_conn"`
}

func Load() (Config, error) {
	viper.SetDefault("server_address", "0.0.0.0:8080")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("server_address", "SERVER_ADDRESS")
	_ = viper.BindEnv("postgres_conn", "POSTGRES_CONN")

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
