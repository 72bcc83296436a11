package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alex/parley/internal/config"
	"github.com/alex/parley/internal/personality"
	"github.com/alex/parley/internal/session"
)

func newTestApp(t *testing.T, cfg *config.Config) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a, err := newApp(context.Background(), cfg, zap.NewNop(), &out)
	require.NoError(t, err)
	a.plain = true
	t.Cleanup(func() { a.close() })
	return a, &out
}

func memoryConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Store.Backend = session.BackendMemory
	cfg.Seed = 1
	return cfg
}

func TestApp_ConversationScript(t *testing.T) {
	a, out := newTestApp(t, memoryConfig())

	script := strings.Join([]string{
		"my name is Sam",
		"/name",
		"/mood silly",
		"/mood angry",
		"/adjust humor 5",
		"/adjust bogus 1",
		"/traits",
		"/history 1",
		"/frobnicate",
		"exit",
		"this line is never read",
	}, "\n")

	a.run(context.Background(), strings.NewReader(script))
	text := out.String()

	assert.Contains(t, text, "Chatbot: "+greeting)
	assert.Contains(t, text, "Sam")
	assert.Contains(t, text, "Your name is Sam.")
	assert.Contains(t, text, "Mood changed to silly!")
	assert.Contains(t, text, personality.UnknownMoodMessage)
	assert.Contains(t, text, "humor is now 1.00")
	assert.Contains(t, text, `No trait named "bogus"`)
	assert.Contains(t, text, "Unknown command /frobnicate")
	assert.Contains(t, text, goodbye)

	assert.Equal(t, personality.MoodSilly, a.engine.Mood())
	assert.Equal(t, 1.0, a.engine.Trait(personality.TraitHumor))
	// commands are not conversation turns
	require.Len(t, a.engine.RecentHistory(0), 1)
	assert.Equal(t, "my name is Sam", a.engine.RecentHistory(0)[0].Input)

	snap, err := a.store.Load(context.Background(), "default")
	require.NoError(t, err)
	require.NotNil(t, snap.UserName)
	assert.Equal(t, "Sam", *snap.UserName)
	assert.Equal(t, personality.MoodSilly, snap.Mood)
	assert.Len(t, snap.History, 1)
}

func TestApp_RestoresSavedProfile(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Backend = session.BackendFile
	cfg.Store.Path = filepath.Join(t.TempDir(), "profiles")

	first, _ := newTestApp(t, cfg)
	first.run(context.Background(), strings.NewReader("my name is Ada\n/mood serious\nquit\n"))

	second, out := newTestApp(t, cfg)
	second.run(context.Background(), strings.NewReader(""))

	assert.Contains(t, out.String(), "Welcome back, Ada!")
	assert.Equal(t, personality.MoodSerious, second.engine.Mood())
	assert.Len(t, second.engine.RecentHistory(0), 1)
}

func TestApp_Reset(t *testing.T) {
	a, out := newTestApp(t, memoryConfig())

	a.run(context.Background(), strings.NewReader("my name is Sam\n/mood excited\n/reset\n/name\n/history\n"))

	assert.Contains(t, out.String(), "Conversation reset.")
	assert.Contains(t, out.String(), "I don't know your name yet.")
	assert.Contains(t, out.String(), "No history yet.")
	assert.Equal(t, personality.DefaultMood, a.engine.Mood())
}

func TestApp_InterruptSaves(t *testing.T) {
	a, out := newTestApp(t, memoryConfig())
	a.engine.SetMood("neutral")

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.run(ctx, pr)

	assert.Contains(t, out.String(), goodbye)
	snap, err := a.store.Load(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, personality.MoodNeutral, snap.Mood)
}

func TestApp_ConfigTraitsSeedFreshEngine(t *testing.T) {
	cfg := memoryConfig()
	cfg.Traits[personality.TraitHumor] = 0.05
	cfg.Mood = "serious"

	a, _ := newTestApp(t, cfg)
	assert.Equal(t, 0.05, a.engine.Trait(personality.TraitHumor))
	assert.Equal(t, personality.MoodSerious, a.engine.Mood())
}

func TestSayCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"say",
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--store", "memory",
		"--seed", "3",
		"my", "name", "is", "Sam",
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Sam")
}

func TestSayCommand_RecordKeepsName(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLEY_STORE_PATH", filepath.Join(dir, "profiles"))
	t.Cleanup(func() { recordTurn = false })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"say",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--store", "file",
		"--seed", "3",
		"--record",
		"my", "name", "is", "Sam",
	})
	require.NoError(t, rootCmd.Execute())

	store, err := session.OpenStore(session.BackendFile, filepath.Join(dir, "profiles"))
	require.NoError(t, err)
	defer store.Close()

	snap, err := store.Load(context.Background(), "default")
	require.NoError(t, err)
	require.NotNil(t, snap.UserName)
	assert.Equal(t, "Sam", *snap.UserName)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "my name is Sam", snap.History[0].Input)
}

func TestApp_ResetRestoresConfigPersonality(t *testing.T) {
	cfg := memoryConfig()
	cfg.Traits[personality.TraitHumor] = 0.05
	cfg.Mood = "serious"

	a, _ := newTestApp(t, cfg)
	a.run(context.Background(), strings.NewReader("/mood silly\n/adjust humor 0.5\n/reset\n"))

	assert.Equal(t, personality.MoodSerious, a.engine.Mood())
	assert.Equal(t, 0.05, a.engine.Trait(personality.TraitHumor))
}
