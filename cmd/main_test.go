package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Velmurugan2695/document-question-answer/internal/parser"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	// tests run in cmd/, where ./configs/config.yaml does not exist
	cfg, err := loadConfig(configFilePath)
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cfg, err = loadConfig("../configs/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "chunked", cfg.RAG.Strategy)
}

func TestAskRequiresFileAndQuestions(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"ask", "--config", "../configs/config.yaml"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestAskRejectsUnsupportedFile(t *testing.T) {
	t.Setenv("EMBEDDING_API_KEY", "test-key")
	t.Setenv("OPENROUTER_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"ask", "--config", "../configs/config.yaml", "-f", path, "-q", "Anything?"})

	err := root.Execute()
	var fmtErr *parser.UnsupportedFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, ".txt", fmtErr.Ext)
}
