package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"beanmapper/internal/settings"
)

func newSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(settingsMap(a.settings))
			if err != nil {
				return fmt.Errorf("failed to marshal settings: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}

// settingsMap keys s by the settings file keys, so the output can be used as
// a settings file.
func settingsMap(s settings.Settings) map[string]any {
	return map[string]any{
		settings.KeyStatisticsEnabled:            s.StatisticsEnabled,
		settings.KeyConverterByDestTypeCacheSize: s.ConverterByDestTypeCacheSize,
		settings.KeySuperTypeCheckCacheSize:      s.SuperTypeCheckCacheSize,
		settings.KeyAutoregisterMetrics:          s.AutoregisterMetrics,
		settings.KeyLogLevel:                     s.LogLevel,
		settings.KeyLogFormat:                    s.LogFormat,
	}
}
