// Package config loads the metrics server configuration.
//
// Values are read from an optional config file merged with environment
// variables; anything not set falls back to the defaults below.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Metrics holds the settings for the metrics registry and its scrape
// endpoint. Datacenter, Service and Server become constant labels on every
// registered instrument; Host and Port are only used to bind the exporter.
type Metrics struct {
	Host       string `mapstructure:"host"`
	Port       uint16 `mapstructure:"port"`
	Datacenter string `mapstructure:"datacenter"`
	Service    string `mapstructure:"service"`
	Server     string `mapstructure:"server"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Metrics {
	return Metrics{
		Host:       "0.0.0.0",
		Port:       8878,
		Datacenter: "development",
		Service:    "1.rebalancer.localhost",
		Server:     "127.0.0.1",
	}
}

// Load reads the metrics configuration from a "metrics" config file located
// at path, with environment variables (e.g. METRICS_DATACENTER) taking
// precedence over file values. A missing config file is not an error; a
// malformed one is.
func Load(path string) (Metrics, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("host", def.Host)
	v.SetDefault("port", def.Port)
	v.SetDefault("datacenter", def.Datacenter)
	v.SetDefault("service", def.Service)
	v.SetDefault("server", def.Server)

	v.AddConfigPath(path)
	v.SetConfigName("metrics")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("metrics")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Metrics{}, fmt.Errorf("failed to read metrics config: %w", err)
		}
	}

	var cfg Metrics
	if err := v.Unmarshal(&cfg); err != nil {
		return Metrics{}, fmt.Errorf("failed to unmarshal metrics config: %w", err)
	}
	return cfg, nil
}
