// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers client state upserts, chat history ordering/limiting, and the session KV adapter

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/assist-console/internal/session"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "console.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestClientState_SetGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetValue(ctx, "jwt")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetValue(ctx, "jwt", "first"))
	require.NoError(t, s.SetValue(ctx, "jwt", "second"))

	value, ok, err := s.GetValue(ctx, "jwt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)

	require.NoError(t, s.DeleteValue(ctx, "jwt"))
	_, ok, err = s.GetValue(ctx, "jwt")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is fine
	require.NoError(t, s.DeleteValue(ctx, "jwt"))
}

func TestClientState_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "console.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(ctx, "jwt", "persisted"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	value, ok, err := s.GetValue(ctx, "jwt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)
}

func TestKVStore_OverSQLite(t *testing.T) {
	s := newTestStore(t)
	creds := session.NewKVStore(s)

	_, ok := creds.Get()
	assert.False(t, ok)

	require.NoError(t, creds.Set("tok.abc.def"))
	got, ok := creds.Get()
	require.True(t, ok)
	assert.Equal(t, session.Credential("tok.abc.def"), got)

	require.NoError(t, creds.Clear())
	_, ok = creds.Get()
	assert.False(t, ok)
}

func TestChatMessages_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		sender := SenderUser
		if i%2 == 1 {
			sender = SenderBot
		}
		require.NoError(t, s.SaveChatMessage(ctx, &ChatMessage{
			ID:             fmt.Sprintf("m%d", i),
			ConversationID: "conv-1",
			Sender:         sender,
			Content:        fmt.Sprintf("message %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Millisecond),
		}))
	}
	require.NoError(t, s.SaveChatMessage(ctx, &ChatMessage{
		ID: "other", ConversationID: "conv-2", Sender: SenderUser, Content: "elsewhere", CreatedAt: base,
	}))

	all, err := s.ListChatMessages(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, msg := range all {
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.ID)
	}
	assert.Equal(t, SenderBot, all[1].Sender)

	recent, err := s.ListChatMessages(ctx, "conv-1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "m3", recent[0].ID)
	assert.Equal(t, "m4", recent[1].ID)
}

func TestChatMessages_RejectsUnknownSender(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveChatMessage(context.Background(), &ChatMessage{
		ID: "x", ConversationID: "c", Sender: "system", Content: "nope", CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}

func TestDeleteConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.DeleteConversation(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.SaveChatMessage(ctx, &ChatMessage{
		ID: "a", ConversationID: "c", Sender: SenderUser, Content: "hi", CreatedAt: time.Now(),
	}))
	require.NoError(t, s.DeleteConversation(ctx, "c"))

	msgs, err := s.ListChatMessages(ctx, "c", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
