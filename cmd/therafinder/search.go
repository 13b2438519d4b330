// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/carmenbhuber/TheraFinder/internal/i18n"
	"github.com/carmenbhuber/TheraFinder/internal/match"
	"github.com/carmenbhuber/TheraFinder/internal/server"
	"github.com/carmenbhuber/TheraFinder/internal/service"
	"github.com/carmenbhuber/TheraFinder/internal/source"
	"github.com/carmenbhuber/TheraFinder/internal/tabular"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

var errEmptyQuery = errors.New("no location and no specialization given")

type searchOptions struct {
	location       string
	specialization string
	dataFile       string
	dataURL        string
	output         string
}

func newSearchCmd(a *app) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the provider table",
		Long: `search loads the provider table once and prints the providers matching the
given location and specialization. Locations without an exact postcode or city
match are geocoded and searched within a 20 km radius.`,
		Example: `  therafinder search --data providers.csv --location 8001
  therafinder search --url https://example.ch/providers.csv -l Winterthur -s trauma -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSearch(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.location, "location", "l", "", "postcode, city or place name")
	cmd.Flags().StringVarP(&opts.specialization, "specialization", "s", "", "specialization to filter by")
	cmd.Flags().StringVar(&opts.dataFile, "data", "", "path to the provider table")
	cmd.Flags().StringVar(&opts.dataURL, "url", "", "URL of the provider table")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format: table, json or csv (default table on a terminal, json otherwise)")
	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, opts *searchOptions) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	format, err := outputFormat(opts.output, stdout)
	if err != nil {
		return err
	}

	criteria := match.Criteria{Location: opts.location, Specialization: opts.specialization}
	if strings.TrimSpace(criteria.Location) == "" && strings.TrimSpace(criteria.Specialization) == "" {
		_, _ = fmt.Fprintln(stderr, a.loc.Get(i18n.MsgEmptyQuery))
		return errEmptyQuery
	}

	// Explicit flags replace the configured source; a file still wins over a URL
	if opts.dataFile != "" || opts.dataURL != "" {
		a.conf.Data.File = opts.dataFile
		a.conf.Data.URL = opts.dataURL
	}

	serv, err := service.New(a.conf, a.log, a.loc)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	count, err := serv.Reload(cmd.Context())
	switch {
	case errors.Is(err, source.ErrNoSource):
		_, _ = fmt.Fprintln(stderr, a.loc.Get(i18n.MsgNoSource))
		return err
	case err != nil:
		_, _ = fmt.Fprintln(stderr, a.loc.Get(i18n.MsgLoadFailed))
		return err
	}
	_, _ = fmt.Fprintln(stderr, i18n.EntriesLoaded(a.loc, count))

	result, err := serv.Match(cmd.Context(), criteria)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	_, _ = fmt.Fprintln(stderr, i18n.SearchStatus(a.loc, result))

	switch format {
	case outputJSON:
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(server.NewSearchResponse(a.loc, result))
	case outputCSV:
		return tabular.Encode(stdout, serv.Header(), result.Records())
	default:
		return a.writeTable(stdout, serv.Columns(), result)
	}
}

// outputFormat validates format. An empty format selects a table for terminals and JSON for
// everything else.
func outputFormat(format string, w io.Writer) (string, error) {
	switch strings.ToLower(format) {
	case outputTable, outputJSON, outputCSV:
		return strings.ToLower(format), nil
	case "":
		if file, ok := w.(*os.File); ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
			return outputTable, nil
		}
		return outputJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeTable prints the hits as aligned columns. Widths are measured in terminal cells.
func (a *app) writeTable(w io.Writer, columns match.Columns, result match.Result) error {
	if len(result.Hits) == 0 {
		return nil
	}

	header := []string{
		columns.Institution, columns.Postcode, columns.City, columns.Canton,
		columns.Specialization, columns.Phone, columns.Email, columns.Homepage,
	}
	withDistance := result.Outcome == match.OutcomeNearby
	if withDistance {
		header = append(header, "")
	}

	rows := make([][]string, 0, len(result.Hits)+1)
	rows = append(rows, header)
	for _, hit := range result.Hits {
		name := hit.Record.Get(columns.Institution)
		if name == "" {
			name = a.loc.Get(i18n.MsgNoInstitution)
		}
		row := []string{
			name, hit.Record.Get(columns.Postcode), hit.Record.Get(columns.City),
			hit.Record.Get(columns.Canton), hit.Record.Get(columns.Specialization),
			hit.Record.Get(columns.Phone), hit.Record.Get(columns.Email), hit.Record.Get(columns.Homepage),
		}
		if withDistance {
			row = append(row, hit.Distance.Format(a.loc.Get(i18n.MsgDistance)))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		line := strings.Builder{}
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
