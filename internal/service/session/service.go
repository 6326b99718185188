// Package session keeps login credentials in local storage. A session is valid only while both
// its token key and its user key are present.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/storage"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/logger"
	"github.com/jwalitptl/dental-console/pkg/metrics"
)

func TokenKey(id string) string { return fmt.Sprintf("session:%s:access_token", id) }

func UserKey(id string) string { return fmt.Sprintf("session:%s:user", id) }

type Service struct {
	store   storage.Store
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *logger.Logger
	newID   func() string
}

func NewService(store storage.Store, ttl time.Duration, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:   store,
		ttl:     ttl,
		metrics: m,
		log:     log,
		newID:   uuid.NewString,
	}
}

// Create stores the token and user of a successful login under a fresh session id.
func (s *Service) Create(ctx context.Context, res *model.LoginResult) (*model.Session, error) {
	user, err := json.Marshal(res.User)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("encode user: %w", err))
	}

	id := s.newID()
	if err := s.store.Set(ctx, TokenKey(id), []byte(res.AccessToken), s.ttl); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("store access token: %w", err))
	}
	if err := s.store.Set(ctx, UserKey(id), user, s.ttl); err != nil {
		_ = s.store.Delete(ctx, TokenKey(id))
		return nil, apperrors.Internal(fmt.Errorf("store user: %w", err))
	}

	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	return &model.Session{ID: id, AccessToken: res.AccessToken, User: res.User}, nil
}

// Load returns the session for id. A missing token, a missing user or a user record that does
// not parse all mean there is no session.
func (s *Service) Load(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, apperrors.Unauthorized(model.ErrNoSession)
	}

	token, err := s.get(ctx, TokenKey(id))
	if err != nil {
		return nil, err
	}
	raw, err := s.get(ctx, UserKey(id))
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.log.Warn("stored session user unreadable", "session_id", id, "error", err.Error())
		return nil, apperrors.Unauthorized(model.ErrNoSession)
	}
	return &model.Session{ID: id, AccessToken: string(token), User: user}, nil
}

func (s *Service) get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(v) == 0) {
		return nil, apperrors.Unauthorized(model.ErrNoSession)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("load session: %w", err))
	}
	return v, nil
}

// Destroy removes both session keys in one call. The active-session gauge only drops when
// the session still held a token.
func (s *Service) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := s.store.Get(ctx, TokenKey(id))
	live := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return apperrors.Internal(fmt.Errorf("clear session: %w", err))
	}
	if err := s.store.Delete(ctx, TokenKey(id), UserKey(id)); err != nil {
		return apperrors.Internal(fmt.Errorf("clear session: %w", err))
	}
	if live && s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	return nil
}
