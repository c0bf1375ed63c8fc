package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-container/framework/config"
)

// unsetEnv clears key for the duration of the test, restoring it afterwards
// even when the test itself (or godotenv) sets it again.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT", "CONTAINER_STRICT", "LOG_LEVEL")
	cfg := config.Load("testdata/empty.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoContainer"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"App.Port", cfg.App.Port, "8000"},
		{"Container.Strict", cfg.Container.Strict, false},
		{"Log.Level", cfg.Log.Level, "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.Equal(t, ":8000", cfg.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CONTAINER_STRICT", "true")

	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9000", cfg.Addr())
	assert.True(t, cfg.Container.Strict)
}

func TestLoad_EnvFile(t *testing.T) {
	unsetEnv(t, "APP_NAME", "CONTAINER_STRICT", "LOG_LEVEL")

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromFile", cfg.App.Name)
	assert.True(t, cfg.Container.Strict)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ProcessEnvWinsOverFile(t *testing.T) {
	unsetEnv(t, "CONTAINER_STRICT", "LOG_LEVEL")
	t.Setenv("APP_NAME", "FromProcess")

	cfg := config.Load("testdata/app.env")
	assert.Equal(t, "FromProcess", cfg.App.Name)
}

func TestLoad_LogLevelFollowsDebug(t *testing.T) {
	unsetEnv(t, "LOG_LEVEL")
	t.Setenv("APP_DEBUG", "false")

	cfg := config.Load("testdata/empty.env")
	assert.False(t, cfg.App.Debug)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))

	unsetEnv(t, "MISSING_KEY")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
