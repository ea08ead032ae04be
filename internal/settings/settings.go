// Package settings loads the global mapper settings.
//
// Priority (highest to lowest):
//  1. Environment variables with BEANMAPPER_ prefix (e.g., BEANMAPPER_STATISTICS_ENABLED)
//  2. the settings file, when one is given
//  3. built-in defaults
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Keys of the settings file.
const (
	KeyStatisticsEnabled            = "statistics_enabled"
	KeyConverterByDestTypeCacheSize = "converter_by_dest_type_cache_max_size"
	KeySuperTypeCheckCacheSize      = "super_type_check_cache_max_size"
	KeyAutoregisterMetrics          = "autoregister_metrics"
	KeyLogLevel                     = "log_level"
	KeyLogFormat                    = "log_format"
)

const (
	envPrefix        = "BEANMAPPER"
	defaultCacheSize = 10000
	defaultLogLevel  = "INFO"
	defaultLogFormat = "JSON"
)

var errInvalidSettings = errors.New("invalid settings")

// Settings are the process-wide knobs read once per mapper.
type Settings struct {
	StatisticsEnabled            bool
	ConverterByDestTypeCacheSize int
	SuperTypeCheckCacheSize      int
	AutoregisterMetrics          bool
	LogLevel                     string
	LogFormat                    string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ConverterByDestTypeCacheSize: defaultCacheSize,
		SuperTypeCheckCacheSize:      defaultCacheSize,
		LogLevel:                     defaultLogLevel,
		LogFormat:                    defaultLogFormat,
	}
}

// Load reads settings from path (yaml, toml or json, by extension) and the
// environment. An empty path reads the environment only.
func Load(path string) (Settings, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyStatisticsEnabled, def.StatisticsEnabled)
	v.SetDefault(KeyConverterByDestTypeCacheSize, def.ConverterByDestTypeCacheSize)
	v.SetDefault(KeySuperTypeCheckCacheSize, def.SuperTypeCheckCacheSize)
	v.SetDefault(KeyAutoregisterMetrics, def.AutoregisterMetrics)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s := Settings{
		StatisticsEnabled:            v.GetBool(KeyStatisticsEnabled),
		ConverterByDestTypeCacheSize: v.GetInt(KeyConverterByDestTypeCacheSize),
		SuperTypeCheckCacheSize:      v.GetInt(KeySuperTypeCheckCacheSize),
		AutoregisterMetrics:          v.GetBool(KeyAutoregisterMetrics),
		LogLevel:                     strings.ToUpper(v.GetString(KeyLogLevel)),
		LogFormat:                    strings.ToUpper(v.GetString(KeyLogFormat)),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.ConverterByDestTypeCacheSize <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d",
			errInvalidSettings, KeyConverterByDestTypeCacheSize, s.ConverterByDestTypeCacheSize)
	}

	if s.SuperTypeCheckCacheSize <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d",
			errInvalidSettings, KeySuperTypeCheckCacheSize, s.SuperTypeCheckCacheSize)
	}

	switch s.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("%w: unknown %s %q", errInvalidSettings, KeyLogLevel, s.LogLevel)
	}

	switch s.LogFormat {
	case "JSON", "CONSOLE":
	default:
		return fmt.Errorf("%w: unknown %s %q", errInvalidSettings, KeyLogFormat, s.LogFormat)
	}

	return nil
}
