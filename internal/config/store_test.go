package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"build-notifier/internal/domain/model"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}

func TestNewStoreRejectsInvalidFile(t *testing.T) {
	_, err := NewStore(writeSettings(t, "stream: only\n"), nopLogger{})
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestStoreUpdateKeepsPreviousOnInvalid(t *testing.T) {
	st, err := NewStore(writeSettings(t, validSettings), nopLogger{})
	require.NoError(t, err)

	err = st.Update(&model.Settings{})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Equal(t, "defaultStream", st.Snapshot().Stream)
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	st, err := NewStore(writeSettings(t, validSettings), nopLogger{})
	require.NoError(t, err)

	next := st.Snapshot()
	next.Topic = "changed"
	next.Jobs = map[string]model.NotifierConfig{"A": {Topic: "a"}}
	require.NoError(t, st.Update(&next))

	next.Jobs["A"] = model.NotifierConfig{Topic: "mutated"}
	assert.Equal(t, "changed", st.Snapshot().Topic)
	assert.Equal(t, "a", st.Snapshot().Job("A").Topic)
}

func TestStoreReload(t *testing.T) {
	path := writeSettings(t, validSettings)
	st, err := NewStore(path, nopLogger{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(validSettings, "defaultStream", "newStream", 1)), 0o600))
	require.NoError(t, st.Reload())
	assert.Equal(t, "newStream", st.Snapshot().Stream)

	require.NoError(t, os.WriteFile(path, []byte("stream: [broken"), 0o600))
	assert.Error(t, st.Reload())
	assert.Equal(t, "newStream", st.Snapshot().Stream)
}

func TestStoreWatchPicksUpChanges(t *testing.T) {
	path := writeSettings(t, validSettings)
	st, err := NewStore(path, nopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- st.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(validSettings, "defaultTopic", "watchedTopic", 1)), 0o600))

	assert.Eventually(t, func() bool {
		return st.Snapshot().Topic == "watchedTopic"
	}, 5*time.Second, 50*time.Millisecond)
}
