package auth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Completer fills in the fields a partial set of credentials is missing.
type Completer interface {
	Complete(ctx context.Context, partial domain.Credentials) (domain.Credentials, error)
}

// Ensure ChainProvider implements the CredentialProvider interface.
var _ driven.CredentialProvider = (*ChainProvider)(nil)

// ChainProvider merges credentials from several sources. Earlier sources win
// per field; the completer, if any, is asked for whatever is still missing.
type ChainProvider struct {
	sources   []driven.CredentialProvider
	completer Completer
}

// NewChainProvider creates a chain over sources. completer may be nil, in
// which case incomplete credentials are an error.
func NewChainProvider(completer Completer, sources ...driven.CredentialProvider) *ChainProvider {
	return &ChainProvider{
		sources:   sources,
		completer: completer,
	}
}

// Credentials resolves complete credentials or returns domain.ErrAuthRequired.
func (p *ChainProvider) Credentials(ctx context.Context) (domain.Credentials, error) {
	var merged domain.Credentials
	for _, src := range p.sources {
		if merged.IsComplete() {
			break
		}
		creds, err := src.Credentials(ctx)
		if err != nil {
			return merged, err
		}
		if merged.Username == "" {
			merged.Username = creds.Username
		}
		if merged.Password == "" {
			merged.Password = creds.Password
		}
	}

	if !merged.IsComplete() && p.completer != nil {
		return p.completer.Complete(ctx, merged)
	}
	if !merged.IsComplete() {
		return merged, fmt.Errorf("%w: set garmin.username and garmin.password or %s and %s",
			domain.ErrAuthRequired, EnvUsername, EnvPassword)
	}
	return merged, nil
}
