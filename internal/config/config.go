// Package config loads the application configuration and charting profiles.
//
// Application settings come from, in increasing precedence: defaults, an
// optional YAML file, a .env file and PERIOFLOW_* environment variables.
package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/perioflow/perioflow/internal/logging"
	"github.com/perioflow/perioflow/internal/share"
	"github.com/perioflow/perioflow/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// PERIOFLOW_STORE_DRIVER for store.driver.
const EnvPrefix = "PERIOFLOW"

// Config is the application configuration.
type Config struct {
	Store store.Config   `mapstructure:"store"`
	Log   logging.Config `mapstructure:"log"`
	// Profile names the charting settings kept in the store.
	Profile string `mapstructure:"profile"`
	// ShareTTL bounds how long a share code can be redeemed.
	ShareTTL time.Duration `mapstructure:"share_ttl"`
}

// Options tells Load where to look.
type Options struct {
	// File is an optional YAML config file. It must exist when set.
	File string
	// EnvFile is a dotenv file. A missing file is ignored.
	EnvFile string
	// Flags maps config keys to command-line flags. A flag wins over every
	// other source once it is set.
	Flags map[string]*pflag.Flag
}

// SetDefaults registers the default value of every key. Keys need a
// default for AutomaticEnv to see them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "data/perioflow.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("profile", "default")
	v.SetDefault("share_ttl", share.DefaultTTL)
}

// Load reads the configuration.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "loading %s", opts.EnvFile)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	for k, f := range opts.Flags {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(k, f); err != nil {
			return nil, errors.Wrapf(err, "binding flag for %s", k)
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "reading config file %s", opts.File),
				"pass --config with a YAML file or drop the flag to use defaults")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.ShareTTL <= 0 {
		cfg.ShareTTL = share.DefaultTTL
	}
	return &cfg, nil
}
