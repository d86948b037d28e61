package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"
)

type Config struct {
	GameDir   string   `mapstructure:"game_dir"`
	Maps      []string `mapstructure:"maps"`
	Patches   []string `mapstructure:"patches"`
	Patterns  []string `mapstructure:"patterns"`
	Output    string   `mapstructure:"output"`
	Database  string   `mapstructure:"database"`
	Workers   int      `mapstructure:"workers"`
	LogLevel  string   `mapstructure:"log_level"`
	LogFormat string   `mapstructure:"log_format"`
}

// Load reads the optional config file over the defaults. An empty cfgFile
// looks for sciextract.yaml in the home and working directories.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("game_dir", ".")
	v.SetDefault("maps", []string{"RESOURCE.MAP", "RESMAP.000"})
	v.SetDefault("patches", []string{})
	v.SetDefault("patterns", []string{"*"})
	v.SetDefault("output", "out")
	v.SetDefault("database", "resources.db")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("SCIEXTRACT")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName("sciextract")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
