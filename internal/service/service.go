// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vorlif/spreak"

	"github.com/carmenbhuber/TheraFinder/internal/config"
	"github.com/carmenbhuber/TheraFinder/internal/directory"
	"github.com/carmenbhuber/TheraFinder/internal/geocode"
	"github.com/carmenbhuber/TheraFinder/internal/http"
	"github.com/carmenbhuber/TheraFinder/internal/logger"
	"github.com/carmenbhuber/TheraFinder/internal/match"
	"github.com/carmenbhuber/TheraFinder/internal/metrics"
	"github.com/carmenbhuber/TheraFinder/internal/server"
	"github.com/carmenbhuber/TheraFinder/internal/source"
)

const refreshJobName = "provider_refresh_job"

// Service ties the provider directory, the geocoder and the match engine to their data source.
type Service struct {
	SignalSrc signalSource

	config    *config.Config
	engine    *match.Engine
	geocoder  *geocode.CachedGeocoder
	localizer *spreak.Localizer
	logger    *logger.Logger
	scheduler gocron.Scheduler
	source    source.Source
	store     *directory.Store
}

func New(conf *config.Config, log *logger.Logger, loc *spreak.Localizer) (*Service, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	client := http.New(log)
	geocoder, err := selectGeocodeProvider(conf, log, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode provider: %w", err)
	}
	src, err := source.New(client, conf.Data.File, conf.Data.URL)
	if err != nil && !errors.Is(err, source.ErrNoSource) {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}

	store := directory.New()
	service := &Service{
		SignalSrc: stdLibSignalSource{},
		config:    conf,
		engine:    match.New(store, geocoder, columns(conf), log),
		geocoder:  geocoder,
		localizer: loc,
		logger:    log,
		scheduler: scheduler,
		source:    src,
		store:     store,
	}
	return service, nil
}

// Reload fetches the provider table from the configured source and replaces the directory. On
// failure the previously loaded providers are kept.
func (s *Service) Reload(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, source.ErrNoSource
	}

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.DirectoryReloadsTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to load providers from %s: %w", s.source.Name(), err)
	}
	count := s.store.Load(raw)
	metrics.DirectoryReloadsTotal.WithLabelValues("success").Inc()
	s.logger.Info("provider directory loaded", slog.String("source", s.source.Name()),
		slog.Int("providers", count))
	return count, nil
}

// Match runs a search against the loaded providers.
func (s *Service) Match(ctx context.Context, criteria match.Criteria) (match.Result, error) {
	return s.engine.Match(ctx, criteria)
}

// Providers returns the number of loaded providers.
func (s *Service) Providers() int {
	return s.store.Len()
}

// LoadedAt returns the time of the last successful load.
func (s *Service) LoadedAt() time.Time {
	return s.store.LoadedAt()
}

// Columns returns the configured column names.
func (s *Service) Columns() match.Columns {
	return s.engine.Columns()
}

// Header returns the header row of the loaded provider table.
func (s *Service) Header() []string {
	return s.store.Header()
}

// Run loads the providers, starts the periodic refresh, the file watch and the signal handler,
// and serves the HTTP API until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.Reload(ctx); err != nil {
		return err
	}

	if s.config.Data.Refresh > 0 {
		if err := s.createScheduledJob(ctx, s.config.Data.Refresh, s.refresh, refreshJobName); err != nil {
			return err
		}
	}
	s.scheduler.Start()

	if s.config.Data.Watch {
		go func() {
			if err := source.Watch(ctx, s.config.Data.File, source.DefaultDebounce, s.logger,
				func() { s.refresh(ctx) }); err != nil {
				s.logger.Error("failed to watch provider file", logger.Err(err))
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGHUP, syscall.SIGUSR1)
	go func() {
		defer s.SignalSrc.Stop(sigChan)
		s.HandleSignals(ctx, sigChan)
	}()

	srv := server.New(s, s.localizer, s.logger)
	serveErr := srv.Run(ctx, s.config.Server.Listen)

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return serveErr
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// refresh reloads the providers and logs failures instead of returning them.
func (s *Service) refresh(ctx context.Context) {
	if _, err := s.Reload(ctx); err != nil {
		s.logger.Error("failed to refresh provider directory", logger.Err(err))
	}
}

func columns(conf *config.Config) match.Columns {
	return match.Columns{
		Institution:    conf.Columns.Institution,
		Canton:         conf.Columns.Canton,
		City:           conf.Columns.City,
		Postcode:       conf.Columns.Postcode,
		Phone:          conf.Columns.Phone,
		Email:          conf.Columns.Email,
		Homepage:       conf.Columns.Homepage,
		Specialization: conf.Columns.Specialization,
		Latitude:       conf.Columns.Latitude,
		Longitude:      conf.Columns.Longitude,
	}
}
