package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "long stri…", truncate("long string here", 10))
	assert.Equal(t, "héll…", truncate("héllo wörld", 5), "runes, not bytes")
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", formatDuration(0))
	assert.Equal(t, "2.5s", formatDuration(2.5))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(time.Time{}))
	assert.NotEqual(t, "-", formatTime(time.Now()))
}

func TestProgressBar(t *testing.T) {
	assert.Len(t, []rune(progressBar(0, 10)), 10)
	assert.Len(t, []rune(progressBar(100, 10)), 10)
	assert.Len(t, []rune(progressBar(50, 10)), 10)
	// Over-100 inputs must not overflow the bar.
	assert.Len(t, []rune(progressBar(250, 10)), 10)
}

func TestRootCommand_HasCoreSubcommands(t *testing.T) {
	want := []string{"login", "orgs", "workspaces", "projects", "sandbox", "workflows", "progress", "tasks", "view"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "missing subcommand %s", name)
	}
}
