package auth

import (
	"context"
	"os"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Environment variables read by EnvProvider.
const (
	EnvUsername = "GARMIN_USERNAME"
	EnvPassword = "GARMIN_PASSWORD"
)

// Ensure EnvProvider implements the CredentialProvider interface.
var _ driven.CredentialProvider = (*EnvProvider)(nil)

// EnvProvider reads credentials from the environment.
type EnvProvider struct {
	lookup func(string) string
}

// NewEnvProvider creates a provider reading the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.Getenv}
}

// Credentials returns whatever the environment holds. Either field may be empty.
func (p *EnvProvider) Credentials(_ context.Context) (domain.Credentials, error) {
	return domain.Credentials{
		Username: p.lookup(EnvUsername),
		Password: p.lookup(EnvPassword),
	}, nil
}
