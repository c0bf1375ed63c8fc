package providers

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// Identifiers bound by the framework providers.
var (
	ConfigKey = container.Name("config")
	LoggerKey = container.Name("logger")
	RouterKey = container.Name("router")
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration.
//
// Bound identifiers:
//   - ConfigKey  → *config.Config
//
// When Config is nil it is loaded from EnvFiles on first resolution.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
	Config   *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config != nil {
		return app.Instance(ConfigKey, p.Config)
	}
	envFiles := p.EnvFiles
	app.Singleton(string(ConfigKey), func(*container.Container, ...any) (any, error) {
		return config.Load(envFiles...), nil
	})
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound identifiers:
//   - LoggerKey  → *zap.Logger
//
// When Logger is nil one is built from ConfigKey with NewLogger.
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		return app.Instance(LoggerKey, p.Logger)
	}
	app.Singleton(string(LoggerKey), func(c *container.Container, _ ...any) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, ConfigKey)
		if err != nil {
			return nil, err
		}
		return NewLogger(cfg)
	})
	return nil
}

// NewLogger builds a production (JSON) logger when APP_ENV is production and
// a development (console) logger otherwise, at LOG_LEVEL.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Log.Level, err)
	}

	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build(zap.Fields(zap.String("app", cfg.App.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Every request handled by
// it runs in its own child of the container the router was resolved from.
//
// Bound identifiers:
//   - RouterKey  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton(string(RouterKey), func(c *container.Container, _ ...any) (any, error) {
		logger, err := container.Resolve[*zap.Logger](c, LoggerKey)
		if err != nil {
			return nil, err
		}
		router := routing.New(logger)
		router.Middleware(routing.ScopeMiddleware(c))
		return router, nil
	})
	return nil
}
