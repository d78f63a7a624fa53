package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFile = "schooldb"
	configType = "yaml"
	envPrefix  = "SCHOOLDB"
)

// Load reads the configuration file at path, or ./schooldb.yaml when path is
// empty. A missing default file yields the defaults; a missing explicit file
// is an error. SCHOOLDB_* environment variables override file values, e.g.
// SCHOOLDB_LOG_LEVEL for log.level.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFile)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database", "schools.db")
	v.SetDefault("sources.high_schools", DefaultHighSchoolsURL)
	v.SetDefault("sources.sat_records", "")
	v.SetDefault("identifier_mode", "strict")
	v.SetDefault("analytics_errors", "swallow")
	v.SetDefault("http_timeout", "60s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
