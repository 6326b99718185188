package memory

import (
	"context"
	"fmt"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	"github.com/jwalitptl/dental-console/pkg/auth"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
)

// TokenVerifier checks the bearer token a store call carries.
type TokenVerifier interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Option configures a memory store.
type Option func(*tokenGuard)

// RequireToken makes the store refuse calls without a valid access token, as the clinic
// backend does.
func RequireToken(v TokenVerifier) Option {
	return func(g *tokenGuard) {
		g.verifier = v
	}
}

type tokenGuard struct {
	verifier TokenVerifier
}

func newTokenGuard(opts []Option) tokenGuard {
	var g tokenGuard
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func (g tokenGuard) check(ctx context.Context) error {
	if g.verifier == nil {
		return nil
	}
	token := repository.AccessToken(ctx)
	if token == "" {
		return apperrors.NewBackend("Not authenticated", model.ErrInvalidToken)
	}
	if _, err := g.verifier.ValidateToken(token); err != nil {
		return apperrors.NewBackend("Could not validate credentials", fmt.Errorf("%w: %v", model.ErrInvalidToken, err))
	}
	return nil
}
