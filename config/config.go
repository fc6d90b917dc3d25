// Package config provides a reusable loader for builder defaults and
// store/resolver settings: viper-backed YAML with environment
// overrides and a .env file loaded via godotenv.
//
// Version: v0.1.0
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	twcid "github.com/twine-protocol/twine-go/cid"
	twerr "github.com/twine-protocol/twine-go/errors"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for a Twine-backed node: the
// defaults a StrandBuilder/TixelBuilder falls back to, plus store and
// logging settings.
type Config struct {
	Builder struct {
		Hasher       string `mapstructure:"hasher" json:"hasher"`
		Radix        int    `mapstructure:"radix" json:"radix"`
		MajorVersion int    `mapstructure:"major_version" json:"major_version"`
		Subspec      string `mapstructure:"subspec" json:"subspec"`
	} `mapstructure:"builder" json:"builder"`

	Store struct {
		Backend string `mapstructure:"backend" json:"backend"`
	} `mapstructure:"store" json:"store"`

	Resolver struct {
		RangeBatchSize int `mapstructure:"range_batch_size" json:"range_batch_size"`
	} `mapstructure:"resolver" json:"resolver"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads config/default.yaml, merges an optional env-specific
// override file, loads a .env file if present, and unmarshals the
// result into AppConfig.
func Load(env string) (*Config, error) {
	_ = godotenv.Load() // best-effort; absence of .env is not an error

	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, twerr.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, twerr.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, twerr.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the TWINE_ENV environment
// variable to select an override file.
func LoadFromEnv() (*Config, error) {
	return Load(envOrDefault("TWINE_ENV", ""))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// HasherCode resolves the configured hasher name to a twcid.HasherCode.
func (c *Config) HasherCode() (twcid.HasherCode, error) {
	switch c.Builder.Hasher {
	case "", "sha3-512":
		return twcid.SHA3_512, nil
	case "sha3-256":
		return twcid.SHA3_256, nil
	case "sha2-256":
		return twcid.SHA2_256, nil
	case "sha2-512":
		return twcid.SHA2_512, nil
	case "blake3-256":
		return twcid.Blake3256, nil
	default:
		return 0, twerr.NewSpecificationError("unknown hasher name %q", c.Builder.Hasher)
	}
}
