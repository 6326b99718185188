package auth

import (
	"context"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/repository"
	"github.com/jwalitptl/dental-console/internal/service/session"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/logger"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

type Service struct {
	authenticator repository.Authenticator
	sessions      *session.Service
	validator     validator.Validator
	log           *logger.Logger
}

func NewService(a repository.Authenticator, sessions *session.Service, v validator.Validator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		authenticator: a,
		sessions:      sessions,
		validator:     v,
		log:           log,
	}
}

// Login checks the form locally, exchanges credentials with the backend and opens a session.
// A form that fails validation never reaches the backend.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	res, err := s.authenticator.Login(ctx, req)
	if err != nil {
		s.log.Warn("login rejected", "email", req.Email, "error", err.Error())
		// a refused login is the caller's problem, not a gateway failure
		if appErr, ok := apperrors.As(err); ok && appErr.Code == apperrors.ErrBackend {
			return nil, &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: appErr.Message, Err: err}
		}
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, res)
	if err != nil {
		return nil, err
	}
	s.log.Info("login succeeded", "user_id", string(res.User.ID), "session_id", sess.ID)
	return sess, nil
}

// Logout clears the session's stored credentials.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info("logout", "session_id", sessionID)
	return nil
}
