package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaihub/kai/internal/auth"
)

func TestViewCommand_CoversSelectionAndExpansion(t *testing.T) {
	want := []string{"show", "mode", "sort", "search", "expand", "select"}
	have := map[string]bool{}
	for _, c := range newViewCmd().Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "missing view subcommand %s", name)
	}
}

func TestExpireSession_ClearsCredentials(t *testing.T) {
	dir := t.TempDir()
	creds := auth.NewStore(dir)
	require.NoError(t, creds.SaveToken("tok-1"))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	expireSession(creds, nil, logger)

	assert.False(t, creds.LoggedIn())
	assert.NotContains(t, buf.String(), "failed to clear")
}

func TestExpireSession_LogsClearFailure(t *testing.T) {
	dir := t.TempDir()
	creds := auth.NewStore(dir)

	// A non-empty directory at the token path makes Clear fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, auth.TokenFile), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, auth.TokenFile, "x"), []byte("x"), 0600))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	expireSession(creds, nil, logger)

	assert.Contains(t, buf.String(), "failed to clear stored credentials")
}
