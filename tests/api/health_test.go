package api

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/terms/tests/common"
)

func TestHealthEndpoint(t *testing.T) {
	env := common.NewEnv(t)

	resp, err := env.HTTPGet("/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
}

func TestVersionEndpoint(t *testing.T) {
	env := common.NewEnv(t)

	resp, err := env.HTTPGet("/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result, "version")
	assert.Contains(t, result, "build")
	assert.Contains(t, result, "commit")
}

func TestMetricsEndpoint(t *testing.T) {
	env := common.NewEnv(t)

	// Generate one request so the HTTP counters have samples
	resp, err := env.HTTPGet("/health")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = env.HTTPGet("/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "terms_http_requests_total")
}
