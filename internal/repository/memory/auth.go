package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	"github.com/jwalitptl/dental-console/pkg/auth"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/security"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

var _ repository.Authenticator = (*Authenticator)(nil)

// Account is a login known to the in-memory backend.
type Account struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Authenticator answers POST /api/login the way the real backend does: bcrypt-checked
// passwords and HS256 access tokens.
type Authenticator struct {
	users       map[string]model.User
	credentials *security.Credentials
	jwt         auth.JWTService
}

// NewAuthenticator enrolls accounts. Each must pass the same rules the login form enforces,
// so a configured demo user can always sign in.
func NewAuthenticator(credentials *security.Credentials, jwtSvc auth.JWTService, v validator.Validator, accounts []Account) (*Authenticator, error) {
	a := &Authenticator{
		users:       make(map[string]model.User, len(accounts)),
		credentials: credentials,
		jwt:         jwtSvc,
	}
	for i, acc := range accounts {
		if err := v.Validate(&model.LoginRequest{Email: acc.Email, Password: acc.Password}); err != nil {
			return nil, fmt.Errorf("demo user %q: %w", acc.Email, err)
		}
		if err := credentials.Enroll(acc.Email, acc.Password); err != nil {
			return nil, err
		}
		a.users[strings.ToLower(strings.TrimSpace(acc.Email))] = model.User{
			ID:    model.UserID(strconv.Itoa(i + 1)),
			Name:  acc.Name,
			Email: acc.Email,
			Role:  acc.Role,
		}
	}
	return a, nil
}

func (a *Authenticator) Login(_ context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	if err := a.credentials.Verify(req.Email, req.Password); err != nil {
		return nil, apperrors.NewBackend("Invalid email or password", model.ErrInvalidCredentials)
	}
	user := a.users[strings.ToLower(strings.TrimSpace(req.Email))]

	token, err := a.jwt.GenerateAccessToken(string(user.ID), user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.LoginResult{AccessToken: token, User: user}, nil
}
