package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"log-console/core/database"
	"log-console/core/logger"
	"log-console/core/patternmatch"
	"log-console/core/server"
	"log-console/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure returned from LoadConfig.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration. Each section maps to an environment
// prefix, e.g. Matcher.TimeoutMs is read from MATCHER_TIMEOUT_MS.
type Config struct {
	Server   server.Config       `mapstructure:"server"`
	Storage  storage.Config      `mapstructure:"storage"`
	Log      logger.Config       `mapstructure:"log"`
	Database database.Config     `mapstructure:"database"`
	Matcher  patternmatch.Config `mapstructure:"matcher"`
}

// LoadConfig reads dir/.env (when present) and the environment, applies the
// struct tag defaults and validates the result.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the services cannot start with.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: server port %q", ErrInvalid, c.Server.Port)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("%w: storage bucket is empty", ErrInvalid)
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalid, c.Database.Driver)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unsupported log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// registerDefaults walks t and sets every mapstructure key to its default tag.
// Keys must be registered, even with an empty default, for AutomaticEnv to
// pick them up during Unmarshal.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("mapstructure")
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct {
			registerDefaults(v, field.Type, name)
			continue
		}
		v.SetDefault(name, field.Tag.Get("default"))
	}
}
