package auth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// failingProvider always returns an error.
type failingProvider struct{}

func (failingProvider) Credentials(_ context.Context) (domain.Credentials, error) {
	return domain.Credentials{}, errors.New("keyring locked")
}

func fakeEnv(values map[string]string) *EnvProvider {
	return &EnvProvider{lookup: func(key string) string { return values[key] }}
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(domain.Credentials{Username: "rider", Password: "secret"})

	creds, err := p.Credentials(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "rider", creds.Username)
	assert.Equal(t, "secret", creds.Password)
}

func TestEnvProvider(t *testing.T) {
	t.Run("reads both variables", func(t *testing.T) {
		p := fakeEnv(map[string]string{EnvUsername: "rider", EnvPassword: "secret"})

		creds, err := p.Credentials(context.Background())

		require.NoError(t, err)
		assert.True(t, creds.IsComplete())
	})

	t.Run("process environment", func(t *testing.T) {
		t.Setenv(EnvUsername, "env-rider")
		t.Setenv(EnvPassword, "")

		creds, err := NewEnvProvider().Credentials(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "env-rider", creds.Username)
		assert.Empty(t, creds.Password)
	})
}

func TestPromptProvider(t *testing.T) {
	t.Run("prompts for both fields", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPromptProvider(strings.NewReader("rider\nsecret\n"), &out)

		creds, err := p.Credentials(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.Credentials{Username: "rider", Password: "secret"}, creds)
		assert.Contains(t, out.String(), "username")
		assert.Contains(t, out.String(), "Password for rider")
	})

	t.Run("only missing password", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPromptProvider(strings.NewReader("secret"), &out)

		creds, err := p.Complete(context.Background(), domain.Credentials{Username: "rider"})

		require.NoError(t, err)
		assert.Equal(t, "secret", creds.Password)
		assert.NotContains(t, out.String(), "username")
	})

	t.Run("empty input", func(t *testing.T) {
		p := NewPromptProvider(strings.NewReader(""), &bytes.Buffer{})

		_, err := p.Credentials(context.Background())

		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("blank password", func(t *testing.T) {
		p := NewPromptProvider(strings.NewReader("rider\n\n"), &bytes.Buffer{})

		_, err := p.Credentials(context.Background())

		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})
}

func TestChainProvider(t *testing.T) {
	t.Run("first complete source wins", func(t *testing.T) {
		chain := NewChainProvider(nil,
			NewStaticProvider(domain.Credentials{Username: "config", Password: "config-pw"}),
			fakeEnv(map[string]string{EnvUsername: "env", EnvPassword: "env-pw"}),
		)

		creds, err := chain.Credentials(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "config", creds.Username)
		assert.Equal(t, "config-pw", creds.Password)
	})

	t.Run("merges fields across sources", func(t *testing.T) {
		chain := NewChainProvider(nil,
			NewStaticProvider(domain.Credentials{Username: "config"}),
			fakeEnv(map[string]string{EnvUsername: "env", EnvPassword: "env-pw"}),
		)

		creds, err := chain.Credentials(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "config", creds.Username)
		assert.Equal(t, "env-pw", creds.Password)
	})

	t.Run("completer fills the rest", func(t *testing.T) {
		prompt := NewPromptProvider(strings.NewReader("typed-pw\n"), &bytes.Buffer{})
		chain := NewChainProvider(prompt,
			NewStaticProvider(domain.Credentials{Username: "config"}),
			fakeEnv(nil),
		)

		creds, err := chain.Credentials(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.Credentials{Username: "config", Password: "typed-pw"}, creds)
	})

	t.Run("completer not used when complete", func(t *testing.T) {
		prompt := NewPromptProvider(strings.NewReader(""), &bytes.Buffer{})
		chain := NewChainProvider(prompt,
			fakeEnv(map[string]string{EnvUsername: "env", EnvPassword: "env-pw"}),
		)

		_, err := chain.Credentials(context.Background())

		require.NoError(t, err)
	})

	t.Run("incomplete without completer", func(t *testing.T) {
		chain := NewChainProvider(nil, fakeEnv(nil))

		_, err := chain.Credentials(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.Contains(t, err.Error(), EnvUsername)
	})

	t.Run("source error propagates", func(t *testing.T) {
		var src driven.CredentialProvider = failingProvider{}
		chain := NewChainProvider(nil, src)

		_, err := chain.Credentials(context.Background())

		assert.EqualError(t, err, "keyring locked")
	})
}
