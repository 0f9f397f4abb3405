package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/beanbocchi/companion/pkg/validator"
)

var (
	once sync.Once
	cfg  *Config
)

// GetConfig loads the configuration once and caches it for the process.
func GetConfig() *Config {
	once.Do(func() {
		c, err := Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		cfg = c
	})
	return cfg
}

// Load reads config.yaml (working directory or ./config) and applies
// COMPANION_* environment overrides, e.g. COMPANION_STORAGE_SECRETACCESSKEY.
// Credentials are expected to arrive via environment in production.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("COMPANION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No file is fine, defaults and environment cover everything.
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.Validate(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.addSource", false)
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3020)
	v.SetDefault("server.readTimeout", "20s")
	v.SetDefault("server.writeTimeout", "20s")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.accessKeyID", "")
	v.SetDefault("storage.secretAccessKey", "")
	v.SetDefault("storage.bucket", "uploads")
	v.SetDefault("storage.usePathStyle", true)
	v.SetDefault("storage.presignTTL", 3600)
	v.SetDefault("storage.singleActiveUpload", true)
	v.SetDefault("events.enabled", true)
	v.SetDefault("events.path", "companion-events.sqlite")
}
