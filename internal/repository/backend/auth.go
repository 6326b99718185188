package backend

import (
	"context"
	"net/http"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
)

// LoginFailedMessage is used when the backend refuses a login without saying why.
const LoginFailedMessage = "Login failed. Please try again."

var _ repository.Authenticator = (*Authenticator)(nil)

type Authenticator struct {
	client *Client
}

func NewAuthenticator(c *Client) *Authenticator {
	return &Authenticator{client: c}
}

// Login posts credentials. The reply counts as success only when it carries the success flag,
// a token and a user.
func (a *Authenticator) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	var reply loginReply
	err := a.client.doJSON(ctx, "login", http.MethodPost, "/api/login", loginPayload{Email: req.Email, Password: req.Password}, &reply)
	if err != nil {
		if appErr, ok := apperrors.As(err); ok && appErr.Code != apperrors.ErrConnection {
			if appErr.Message == genericFailureMessage {
				return nil, apperrors.NewBackend(LoginFailedMessage, err)
			}
			return nil, apperrors.NewBackend(appErr.Message, err)
		}
		return nil, err
	}

	if !reply.Success || reply.AccessToken == "" || reply.User == nil {
		msg := reply.Detail
		if msg == "" {
			msg = LoginFailedMessage
		}
		return nil, apperrors.NewBackend(msg, model.ErrInvalidCredentials)
	}
	return &model.LoginResult{AccessToken: reply.AccessToken, User: *reply.User}, nil
}
