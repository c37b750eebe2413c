package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/logq/internal/model"
)

// cliConfig holds only the settings logqctl needs. It shares the server's
// config file so both resolve the same log directory and timezone.
type cliConfig struct {
	LogDir   string         `mapstructure:"log-dir"`
	Timezone string         `mapstructure:"timezone"`
	Socket   string         `mapstructure:"socket"`
	Output   string         `mapstructure:"output"`
	Timeout  time.Duration  `mapstructure:"query-timeout"`
	Location *time.Location `mapstructure:"-"`
}

func loadCLIConfig(configPath string, flags *pflag.FlagSet) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("LOGQ")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("log-dir", model.DefaultLogDir)
	v.SetDefault("timezone", model.DefaultTimezone)
	v.SetDefault("socket", "")
	v.SetDefault("output", outputJSON)
	v.SetDefault("query-timeout", model.DefaultQueryTimeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "logq", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	for _, key := range []string{"log-dir", "socket", "output"} {
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if strings.HasPrefix(cfg.LogDir, "~/") {
		cfg.LogDir = filepath.Join(home, cfg.LogDir[2:])
	}
	if strings.HasPrefix(cfg.Socket, "~/") {
		cfg.Socket = filepath.Join(home, cfg.Socket[2:])
	}

	return cfg, nil
}
