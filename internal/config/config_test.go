package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "teams.json", cfg.TeamsFile)
	assert.Equal(t, 5*time.Minute, cfg.Window)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "rest", cfg.GitHub.Counter)
	assert.Equal(t, 100, cfg.GitHub.PerPage)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "origin", cfg.Publish.Remote)
	assert.True(t, cfg.Publish.Push)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.PollInterval)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commitrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
teams_file: conf/teams.yaml
github:
  counter: graphql
  concurrency: 8
publish:
  push: false
dashboard:
  base_url: https://cdn.example.com/stats
  poll_interval: 1m
`), 0o644))
	t.Setenv("COMMITRACE_DATA_DIR", "public/data")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "conf/teams.yaml", cfg.TeamsFile)
	assert.Equal(t, "graphql", cfg.GitHub.Counter)
	assert.Equal(t, 8, cfg.GitHub.Concurrency)
	assert.False(t, cfg.Publish.Push)
	assert.Equal(t, "https://cdn.example.com/stats", cfg.Dashboard.BaseURL)
	assert.Equal(t, time.Minute, cfg.Dashboard.PollInterval)
	assert.Equal(t, "public/data", cfg.Data.Dir)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		content        string
		expectedErrMsg string
	}{
		{
			name:           "unknown counter backend",
			content:        "github:\n  counter: soap\n",
			expectedErrMsg: "github.counter",
		},
		{
			name:           "page size above the API maximum",
			content:        "github:\n  per_page: 500\n",
			expectedErrMsg: "github.per_page",
		},
		{
			name:           "non-positive window",
			content:        "window: 0s\n",
			expectedErrMsg: "window must be positive",
		},
		{
			name:           "malformed yaml",
			content:        "github: [\n",
			expectedErrMsg: "failed to read config",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "commitrace.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := Load(path)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErrMsg)
		})
	}
}
