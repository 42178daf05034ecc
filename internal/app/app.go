package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/burstmatrix/internal/cachekey"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/dispatch"
	"github.com/specialistvlad/burstmatrix/internal/plan"
)

// Publisher hands a finished plan to an orchestrator.
type Publisher interface {
	Publish(ctx context.Context, p *plan.Plan) error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	loader    config.WorkflowLoader
	resolver  *cachekey.Resolver
	publisher Publisher
}

// Option customizes an App.
type Option func(*App)

// WithPublisher replaces the publisher derived from Config.Dispatch.
func WithPublisher(p Publisher) Option {
	return func(a *App) {
		a.publisher = p
	}
}

// NewApp is the constructor for the main application. The plan is written to
// outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.WorkflowLoader, opts ...Option) (*App, error) {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		resolver: cachekey.NewResolver(cachekey.WithPrefix(cfg.CachePrefix)),
	}

	if cfg.Dispatch != nil {
		pub, err := dispatch.New(*cfg.Dispatch)
		if err != nil {
			return nil, fmt.Errorf("invalid dispatch configuration: %w", err)
		}
		a.publisher = pub
		logger.Debug("Plan dispatch enabled.", "url", cfg.Dispatch.URL)
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
