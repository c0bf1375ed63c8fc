package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

// ── Services ──────────────────────────────────────────────────────────────────

// Catalog is an application-wide Singleton warmed up once at first use.
type Catalog struct {
	log   *zap.Logger
	items []string
}

func (c *Catalog) InitAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		select {
		case <-time.After(50 * time.Millisecond):
			c.items = []string{"container", "scope", "provider"}
			c.log.Info("catalog warmed up", zap.Int("items", len(c.items)))
			close(done)
		case <-ctx.Done():
			done <- ctx.Err()
		}
	}()
	return done
}

// RequestContext is built once per HTTP request.
type RequestContext struct {
	ID      string
	Started time.Time
}

var (
	CatalogClass = container.NewClass("Catalog",
		func(args ...any) (any, error) {
			return &Catalog{log: args[0].(*zap.Logger)}, nil
		},
		container.Inject(providers.LoggerKey),
		container.WithHook(container.AsyncHook),
	)

	RequestContextClass = container.NewClass("RequestContext",
		func(args ...any) (any, error) {
			return &RequestContext{ID: args[0].(string), Started: time.Now()}, nil
		},
		container.Inject(routing.RequestIDKey),
		container.WithLifecycle(container.PerScope),
	)
)

// ── Provider ──────────────────────────────────────────────────────────────────

type CatalogServiceProvider struct {
	container.BaseProvider
}

func (p *CatalogServiceProvider) Register(c *container.Container) error {
	if err := c.Register(CatalogClass).AsSelf(); err != nil {
		return err
	}
	return c.Register(RequestContextClass).AsSelf()
}

func (p *CatalogServiceProvider) Boot(c *container.Container) error {
	router, err := container.Resolve[*routing.Router](c, providers.RouterKey)
	if err != nil {
		return err
	}
	cfg := container.MustResolve[*config.Config](c, providers.ConfigKey)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome to go-container!"})
	})

	router.Get("/catalog", func(w http.ResponseWriter, r *http.Request) {
		res := gohttp.NewResponse(w)
		scope := routing.Scope(r)

		reqCtx, err := container.Resolve[*RequestContext](scope, RequestContextClass)
		if err != nil {
			res.Fail(err, cfg.App.Debug)
			return
		}
		catalog, err := container.Resolve[*Catalog](scope, CatalogClass, container.WithContext(r.Context()))
		if err != nil {
			res.Fail(err, cfg.App.Debug)
			return
		}
		res.Success(map[string]any{
			"request": reqCtx.ID,
			"items":   catalog.items,
			"elapsed": time.Since(reqCtx.Started).String(),
		})
	})
	return nil
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		panic(err)
	}
	log := application.Logger()
	defer func() { _ = log.Sync() }()

	if err := application.AddProvider(&CatalogServiceProvider{}); err != nil {
		log.Fatal("register provider", zap.Error(err))
	}

	// Warm the catalog in the background while the server starts.
	warm := application.ResolveAsync(CatalogClass)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if _, err := warm.Await(); err != nil {
			log.Error("catalog warm-up failed", zap.Error(err))
		}
	}()

	if err := application.Run(ctx); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
