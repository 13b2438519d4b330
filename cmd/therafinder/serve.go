// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/carmenbhuber/TheraFinder/internal/logger"
	"github.com/carmenbhuber/TheraFinder/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `serve loads the provider table, keeps it up to date and answers searches on
/api/search. SIGHUP reloads the table, SIGUSR1 clears the geocoding cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				a.conf.Server.Listen = listen
			}
			return a.runServe(cmd)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address the HTTP API listens on")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	serv, err := service.New(a.conf, a.log, a.loc)
	if err != nil {
		a.log.Error("failed to initialize therafinder service", logger.Err(err))
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	a.log.Info("starting therafinder service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(cmd.Context()); err != nil {
		a.log.Error("failed to run therafinder service", logger.Err(err))
		return err
	}
	a.log.Info("shutting down therafinder service")
	return nil
}
