package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesLogFile(t *testing.T) {
	dir := t.TempDir()

	path, err := Init(dir)
	require.NoError(t, err)
	defer Close()

	assert.Equal(t, filepath.Join(dir, "switcher.log"), path)

	Info("hello %s", "world")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
	assert.Contains(t, string(data), "[INFO]")
}

func TestDebugSuppressedByDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := Init(dir)
	require.NoError(t, err)

	SetDebug(false)
	Debug("invisible")
	Warn("visible")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "invisible")
	assert.Contains(t, string(data), "visible")
}

func TestDebugEnabled(t *testing.T) {
	dir := t.TempDir()

	path, err := Init(dir)
	require.NoError(t, err)

	SetDebug(true)
	defer SetDebug(false)
	Debug("now visible")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "now visible")
	assert.Contains(t, string(data), "[DEBUG]")
}

func TestPrefixAppearsInLines(t *testing.T) {
	dir := t.TempDir()

	path, err := Init(dir)
	require.NoError(t, err)

	SetPrefix("PID:42")
	defer SetPrefix("")
	Error("boom")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PID:42")
	assert.Contains(t, string(data), "boom")
}
