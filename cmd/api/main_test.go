package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServe_BadFlag(t *testing.T) {
	assert.Equal(t, 2, serve([]string{"--no-such-flag"}))
}

func TestServe_MissingConfig(t *testing.T) {
	assert.Equal(t, 1, serve([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
}

func TestServe_StartupFailureReturns(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(cfg, []byte("logging:\n  level: error\n"), 0o644))
	t.Setenv("CATALOG_FILE", filepath.Join(dir, "missing-catalog.yaml"))

	// A failure after the logger exists returns an exit code instead of
	// terminating the test process.
	assert.Equal(t, 1, serve([]string{"--config", cfg}))
}
