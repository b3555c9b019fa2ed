package main

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/domain"
	"trade-journal/internal/storage/memory"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--use-memory", "--user-id", "cli-user", "--timezone", "UTC"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAdd(t *testing.T) {
	out, err := run(t, "", "add", "--symbol", "eurusd", "--confluences", "sweep", "--entry-models", "breaker")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 36)
}

func TestAdd_RequiresSymbol(t *testing.T) {
	_, err := run(t, "", "add", "--moods", "calm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol")
}

func TestEntries_Empty(t *testing.T) {
	out, err := run(t, "", "entries", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "0 entries")
}

func TestEntries_BadDate(t *testing.T) {
	_, err := run(t, "", "entries", "yesterday")
	assert.Error(t, err)
}

func TestDelete_UnknownEntry(t *testing.T) {
	_, err := run(t, "", "delete", "missing", "--yes")
	assert.Error(t, err)
}

func TestMigrate_RejectsMemory(t *testing.T) {
	_, err := run(t, "", "migrate")
	assert.Error(t, err)
}

func TestAsk(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, ask(strings.NewReader(tt.input), &out, "Delete?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "[y/N]")
	}
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "entry-models", flagName("entry_models"))
	assert.Equal(t, "moods", flagName("moods"))
}

func TestServe_RejectsUnknownTimezone(t *testing.T) {
	_, err := run(t, "", "serve", "--timezone", "Mars/Olympus_Mons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestNewSession(t *testing.T) {
	st := &stores{entries: memory.NewEntryStore(), prefs: memory.NewPreferenceStore()}
	sess := newSession(st, time.UTC, log.New(io.Discard, "", 0))
	require.NotNil(t, sess)

	require.NoError(t, sess.Start(t.Context(), &domain.User{ID: "cli-user"}))
	assert.Equal(t, domain.Today(time.UTC), sess.Snapshot().SelectedDate)
}
