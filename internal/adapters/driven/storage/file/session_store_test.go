package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

func TestSessionStore_LoadMissing(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	session, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	store := NewSessionStore(dataDir)
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := store.Save(context.Background(), &domain.Session{
		Username:     "rider",
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		OAuth1Token:  "oauth1",
		OAuth1Secret: "oauth1-secret",
		Expiry:       expiry,
	})
	require.NoError(t, err)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	session, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "rider", session.Username)
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "refresh", session.RefreshToken)
	assert.Equal(t, "oauth1", session.OAuth1Token)
	assert.Equal(t, "oauth1-secret", session.OAuth1Secret)
	assert.True(t, expiry.Equal(session.Expiry))
}

func TestSessionStore_SaveNil(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	err := store.Save(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_LoadCorrupt(t *testing.T) {
	dataDir := t.TempDir()
	store := NewSessionStore(dataDir)
	require.NoError(t, os.WriteFile(store.Path(), []byte("not json"), 0o600))

	session, err := store.Load(context.Background())

	assert.Error(t, err)
	assert.Nil(t, session)
}

func TestSessionStore_Clear(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	require.NoError(t, store.Save(context.Background(), &domain.Session{AccessToken: "a"}))

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, store.Clear(context.Background()))

	session, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}
