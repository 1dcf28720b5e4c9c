package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/linksum/cmd/linksum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMain(t *testing.T) *main.Main {
	t.Helper()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")
	m.Logger = zap.NewNop()
	return m
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := newMain(t)
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	helpOutput := stdout.String()
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "Flags:")
	assert.Contains(t, helpOutput, "analyze")
	assert.NoFileExists(t, m.DBPath, "help must not create the database")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := newMain(t)

	err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_ListEmptyDatabase(t *testing.T) {
	t.Parallel()

	m := newMain(t)
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"list"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No analyses found")
	assert.FileExists(t, m.DBPath)
}

func TestMain_Run_TagsEmptyDatabase(t *testing.T) {
	t.Parallel()

	m := newMain(t)
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"tags"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No tags yet.")
}

func TestMain_Run_ShowUnknownID(t *testing.T) {
	t.Parallel()

	m := newMain(t)
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"show", "nope"}, &bytes.Buffer{}, stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), `analysis "nope" not found`)
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	configPath := filepath.Join(dir, "linksum.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"db": "`+dbPath+`"}`), 0o600))

	m := main.NewMain()
	m.Logger = zap.NewNop()

	err := m.Run(context.Background(), []string{"--config", configPath, "list"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestMain_Run_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	m := newMain(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, []string{"serve", "--addr", "127.0.0.1:0"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
}
