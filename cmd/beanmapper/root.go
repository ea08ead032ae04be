package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"beanmapper/internal/logger"
	"beanmapper/internal/settings"
)

// app carries what the root command prepares for its subcommands.
type app struct {
	settingsFile string
	verbose      bool

	settings settings.Settings
	log      *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "beanmapper",
		Short: "Check bean mapping files",
		Long: `beanmapper works with the YAML mapping files read by beanmapper mappers.
It checks their syntax and merges them the way a mapper does, so that
duplicate rules and conflicting configuration show up before deployment.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&a.settingsFile, "settings", "",
		"settings file (yaml, toml or json); environment variables with the BEANMAPPER_ prefix override it")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newCheckCmd(a), newSettingsCmd(a))

	return cmd
}

// setup loads the settings and builds the logger.
func (a *app) setup() error {
	s, err := settings.Load(a.settingsFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	a.settings = s

	level := s.LogLevel
	if a.verbose {
		level = "DEBUG"
	}

	a.log = logger.New(level, logger.FormatConsole).Named(logger.ComponentCLI)

	return nil
}
