package auth

import (
	"context"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Ensure StaticProvider implements the CredentialProvider interface.
var _ driven.CredentialProvider = (*StaticProvider)(nil)

// StaticProvider returns credentials fixed at construction, typically from
// the configuration file. Either field may be empty.
type StaticProvider struct {
	creds domain.Credentials
}

// NewStaticProvider creates a provider for fixed credentials.
func NewStaticProvider(creds domain.Credentials) *StaticProvider {
	return &StaticProvider{creds: creds}
}

// Credentials returns the configured credentials.
func (p *StaticProvider) Credentials(_ context.Context) (domain.Credentials, error) {
	return p.creds, nil
}
