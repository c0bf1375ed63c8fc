package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newResponse(t *testing.T) (*gohttp.Response, *httptest.ResponseRecorder) {
	t.Helper()
	rr := httptest.NewRecorder()
	return gohttp.NewResponse(rr), rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	return m
}

// ── JSON ──────────────────────────────────────────────────────────────────────

func TestResponse_JSON(t *testing.T) {
	res, rr := newResponse(t)
	res.JSON(http.StatusOK, map[string]any{"key": "val"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "val", decodeJSON(t, rr)["key"])
}

func TestResponse_Envelopes(t *testing.T) {
	res, rr := newResponse(t)
	res.Success(map[string]any{"id": 1})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"id": float64(1)}, decodeJSON(t, rr)["data"])

	res, rr = newResponse(t)
	res.Created("new")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "new", decodeJSON(t, rr)["data"])

	res, rr = newResponse(t)
	res.NoContent()
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestResponse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		send    func(*gohttp.Response)
		status  int
		message string
	}{
		{"Error", func(r *gohttp.Response) { r.Error(http.StatusBadRequest, "bad input") }, http.StatusBadRequest, "bad input"},
		{"NotFound", func(r *gohttp.Response) { r.NotFound() }, http.StatusNotFound, "Not found."},
		{"NotFoundCustom", func(r *gohttp.Response) { r.NotFound("No such user") }, http.StatusNotFound, "No such user"},
		{"ServerError", func(r *gohttp.Response) { r.ServerError() }, http.StatusInternalServerError, "Server Error."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, rr := newResponse(t)
			tt.send(res)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.message, decodeJSON(t, rr)["message"])
		})
	}
}

// ── Container errors ──────────────────────────────────────────────────────────

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&container.ArgumentError{Argument: "identifier"}, http.StatusBadRequest},
		{&container.NotRegisteredError{Service: "mailer"}, http.StatusInternalServerError},
		{&container.ConstructionError{Service: "db", Reason: "producer returned nil"}, http.StatusServiceUnavailable},
		{fmt.Errorf("boot: %w", &container.ConstructionError{Service: "db"}), http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gohttp.StatusFor(tt.err), "%v", tt.err)
	}
}

func TestResponse_Fail(t *testing.T) {
	_, err := container.New().Resolve(container.Name("missing"))
	require.Error(t, err)

	res, rr := newResponse(t)
	res.Fail(err, false)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeJSON(t, rr)["message"])

	res, rr = newResponse(t)
	res.Fail(err, true)
	assert.Contains(t, decodeJSON(t, rr)["message"], "missing")
}
