// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vorlif/spreak"

	"github.com/carmenbhuber/TheraFinder/internal/config"
	"github.com/carmenbhuber/TheraFinder/internal/i18n"
	"github.com/carmenbhuber/TheraFinder/internal/logger"
)

// app holds what every subcommand needs once the configuration is loaded.
type app struct {
	confPath string

	conf *config.Config
	log  *logger.Logger
	loc  *spreak.Localizer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "therafinder",
		Short: "Find therapy providers by location and specialization",
		Long: `therafinder searches a table of therapy providers by postcode, city or any
place name within a 20 km radius and filters the results by specialization.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.confPath, "config", "", "path to the config file")
	root.AddCommand(newSearchCmd(a), newServeCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig(a.confPath)
	if err != nil {
		return err
	}
	a.conf = conf
	a.log = logger.NewLogger(conf.LogLevel, cmd.ErrOrStderr())

	a.loc, err = i18n.New(conf.Locale)
	if err != nil {
		return fmt.Errorf("failed to initialize localizer: %w", err)
	}
	return nil
}

// loadConfig reads the config file at confPath, or from the default location if confPath is
// empty. Without any config file, defaults and THERAFINDER_* environment variables apply.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		conf, err := config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}

	if path, file := findConfigFile(); path != "" && file != "" {
		conf, err := config.NewFromFile(path, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}

	conf, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, nil
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "therafinder", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
