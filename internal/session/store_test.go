package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alex/parley/internal/history"
	"github.com/alex/parley/internal/personality"
)

func sampleSnapshot() Snapshot {
	name := "Sam"
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return Snapshot{
		UserName: &name,
		History: []history.Entry{
			{Timestamp: base, Input: "hello", Response: "I see."},
			{Timestamp: base.Add(time.Second), Input: "my name is Sam", Response: "Nice to meet you, Sam!"},
		},
		Traits: map[string]float64{"humor": 0.3, "energy": 0.9},
		Mood:   personality.MoodSilly,
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenStore(BackendFile, filepath.Join(dir, "profiles"))
	require.NoError(t, err)
	db, err := OpenStore(BackendSQLite, filepath.Join(dir, "parley.db"))
	require.NoError(t, err)
	mem, err := OpenStore(BackendMemory, "")
	require.NoError(t, err)

	stores := map[string]Store{
		BackendFile:   file,
		BackendSQLite: db,
		BackendMemory: mem,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for backend, store := range openStores(t) {
		t.Run(backend, func(t *testing.T) {
			_, err := store.Load(ctx, "default")
			assert.ErrorIs(t, err, ErrNotFound)

			want := sampleSnapshot()
			require.NoError(t, store.Save(ctx, "default", want))

			got, err := store.Load(ctx, "default")
			require.NoError(t, err)
			require.NotNil(t, got.UserName)
			assert.Equal(t, "Sam", *got.UserName)
			assert.Equal(t, want.Traits, got.Traits)
			assert.Equal(t, want.Mood, got.Mood)
			require.Len(t, got.History, 2)
			for i := range want.History {
				assert.Equal(t, want.History[i].Input, got.History[i].Input)
				assert.Equal(t, want.History[i].Response, got.History[i].Response)
				assert.True(t, want.History[i].Timestamp.Equal(got.History[i].Timestamp))
			}

			// saving again replaces rather than appends
			want.History = want.History[:1]
			want.UserName = nil
			require.NoError(t, store.Save(ctx, "default", want))
			got, err = store.Load(ctx, "default")
			require.NoError(t, err)
			assert.Len(t, got.History, 1)
			assert.Nil(t, got.UserName)
		})
	}
}

func TestStores_RejectBadProfile(t *testing.T) {
	ctx := context.Background()

	for backend, store := range openStores(t) {
		t.Run(backend, func(t *testing.T) {
			err := store.Save(ctx, "../escape", sampleSnapshot())
			assert.ErrorIs(t, err, ErrInvalidProfile)
			_, err = store.Load(ctx, "")
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := OpenStore("redis", "x")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestFileStore_CorruptFileRecovers(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zap.WarnLevel)

	store, err := NewFileStore(dir, WithLogger(zap.New(core)))
	require.NoError(t, err)

	corrupt := `{"user_name": "Sam", "conversation_history": 7, "personality_traits": {"humor": 0.4}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.json"), []byte(corrupt), 0o644))

	snap, err := store.Load(context.Background(), "default")
	require.NoError(t, err)
	assert.Empty(t, snap.History)
	assert.Equal(t, 0.4, snap.Traits["humor"])

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "recovered malformed snapshot fields", logs.All()[0].Message)
}

func TestSQLiteStore_SessionID(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "parley.db"), WithSessionID("run-1"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, "default", sampleSnapshot()))
	id, err := store.SessionOf(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "run-1", id)

	_, err = store.SessionOf(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_KeepsNewestTurns(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "parley.db"))
	require.NoError(t, err)
	defer store.Close()

	snap := sampleSnapshot()
	log := history.New()
	for i := 0; i < 130; i++ {
		log.Record("in", "out")
	}
	snap.History = log.Entries()
	require.NoError(t, store.Save(ctx, "default", snap))

	got, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, got.History, history.Limit)
}

func TestSQLiteStore_ZeroTimestamp(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "parley.db"))
	require.NoError(t, err)
	defer store.Close()

	snap := sampleSnapshot()
	snap.History = append(snap.History, history.Entry{Input: "no clock", Response: "I see."})
	require.NoError(t, store.Save(ctx, "default", snap))

	got, err := store.Load(ctx, "default")
	require.NoError(t, err)
	require.Len(t, got.History, 3)
	assert.True(t, got.History[2].Timestamp.IsZero())
	assert.Equal(t, "no clock", got.History[2].Input)
	assert.True(t, got.History[0].Timestamp.Equal(snap.History[0].Timestamp))
}

func TestNewSessionID_Unique(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
