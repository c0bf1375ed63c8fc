package providers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test", Env: "testing", Port: "0"},
		Log: config.LogConfig{Level: "error"},
	}
}

func boot(t *testing.T, ps ...container.ServiceProvider) *container.Container {
	t.Helper()
	c := container.New()
	reg := container.NewProviderRegistry(c)
	for _, p := range ps {
		require.NoError(t, reg.Register(p))
	}
	require.NoError(t, reg.Boot())
	return c
}

func TestConfigServiceProvider_Instance(t *testing.T) {
	cfg := testConfig()
	c := boot(t, &providers.ConfigServiceProvider{Config: cfg})

	got, err := container.Resolve[*config.Config](c, providers.ConfigKey)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestConfigServiceProvider_LoadsLazily(t *testing.T) {
	t.Setenv("APP_NAME", "Lazy")
	c := boot(t, &providers.ConfigServiceProvider{EnvFiles: []string{"missing.env"}})

	assert.False(t, c.Has(providers.ConfigKey, false))
	cfg, err := container.Resolve[*config.Config](c, providers.ConfigKey)
	require.NoError(t, err)
	assert.Equal(t, "Lazy", cfg.App.Name)
}

func TestLoggingServiceProvider_FromConfig(t *testing.T) {
	c := boot(t,
		&providers.ConfigServiceProvider{Config: testConfig()},
		&providers.LoggingServiceProvider{},
	)

	logger, err := container.Resolve[*zap.Logger](c, providers.LoggerKey)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.WarnLevel))
	assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestLoggingServiceProvider_GivenLogger(t *testing.T) {
	nop := zap.NewNop()
	c := boot(t, &providers.LoggingServiceProvider{Logger: nop})

	logger, err := container.Resolve[*zap.Logger](c, providers.LoggerKey)
	require.NoError(t, err)
	assert.Same(t, nop, logger)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := testConfig()
	cfg.Log.Level = "chatty"

	_, err := providers.NewLogger(cfg)
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestNewLogger_Production(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "production"
	cfg.Log.Level = "info"

	logger, err := providers.NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestRoutingServiceProvider_ScopesRequests(t *testing.T) {
	c := boot(t,
		&providers.LoggingServiceProvider{Logger: zap.NewNop()},
		&providers.RoutingServiceProvider{},
	)

	router, err := container.Resolve[*routing.Router](c, providers.RouterKey)
	require.NoError(t, err)

	var scope *container.Container
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		scope = routing.Scope(r)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, scope)
	assert.Same(t, c, scope.Parent())
}

func TestRoutingServiceProvider_MissingLogger(t *testing.T) {
	c := boot(t, &providers.RoutingServiceProvider{})

	_, err := c.Resolve(providers.RouterKey)
	assert.ErrorIs(t, err, container.ErrNotRegistered)
}
