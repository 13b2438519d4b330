// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

// Package server exposes provider searches and data reloads as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vorlif/spreak"

	"github.com/carmenbhuber/TheraFinder/internal/i18n"
	"github.com/carmenbhuber/TheraFinder/internal/logger"
	"github.com/carmenbhuber/TheraFinder/internal/match"
	"github.com/carmenbhuber/TheraFinder/internal/metrics"
	"github.com/carmenbhuber/TheraFinder/internal/source"
)

const shutdownTimeout = 5 * time.Second

// Backend is the part of the service the API needs.
type Backend interface {
	Match(ctx context.Context, criteria match.Criteria) (match.Result, error)
	Reload(ctx context.Context) (int, error)
	Providers() int
	LoadedAt() time.Time
}

type Server struct {
	backend   Backend
	localizer *spreak.Localizer
	logger    *logger.Logger
	router    *gin.Engine
}

// SearchResponse is the JSON body of a successful search.
type SearchResponse struct {
	OriginLabel string      `json:"origin_label"`
	Outcome     string      `json:"outcome"`
	Count       int         `json:"count"`
	Message     string      `json:"message"`
	Results     []match.Hit `json:"results"`
}

func New(backend Backend, loc *spreak.Localizer, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		backend:   backend,
		localizer: loc,
		logger:    log,
		router:    gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())

	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.router.GET("/api/search", s.search)
	s.router.POST("/api/reload", s.reload)
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on listen until ctx is done and then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context, listen string) error {
	srv := &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP API", slog.String("listen", listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("failed to serve HTTP API: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP API: %w", err)
	}
	return nil
}

func (s *Server) health(ctx *gin.Context) {
	status := gin.H{"status": "ok", "providers": s.backend.Providers()}
	if loadedAt := s.backend.LoadedAt(); !loadedAt.IsZero() {
		status["loaded_at"] = loadedAt.UTC().Format(time.RFC3339)
	}
	ctx.JSON(http.StatusOK, status)
}

func (s *Server) search(ctx *gin.Context) {
	criteria := match.Criteria{
		Location:       ctx.Query("location"),
		Specialization: ctx.Query("specialization"),
	}
	if strings.TrimSpace(criteria.Location) == "" && strings.TrimSpace(criteria.Specialization) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": s.localizer.Get(i18n.MsgEmptyQuery)})
		return
	}

	result, err := s.backend.Match(ctx.Request.Context(), criteria)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, NewSearchResponse(s.localizer, result))
}

// NewSearchResponse wraps result together with its localized status line.
func NewSearchResponse(loc *spreak.Localizer, result match.Result) SearchResponse {
	return SearchResponse{
		OriginLabel: result.OriginLabel,
		Outcome:     result.Outcome.String(),
		Count:       len(result.Hits),
		Message:     i18n.SearchStatus(loc, result),
		Results:     result.Hits,
	}
}

func (s *Server) reload(ctx *gin.Context) {
	count, err := s.backend.Reload(ctx.Request.Context())
	if errors.Is(err, source.ErrNoSource) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": s.localizer.Get(i18n.MsgNoSource)})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":   s.localizer.Get(i18n.MsgLoadFailed),
			"details": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"count": count, "message": i18n.EntriesLoaded(s.localizer, count)})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		s.logger.Debug("HTTP request served", slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path), slog.Int("status", ctx.Writer.Status()),
			slog.Duration("duration", time.Since(start)))
	}
}
