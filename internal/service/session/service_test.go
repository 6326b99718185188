package session

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/storage"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/metrics"
)

func newService() (*Service, storage.Store) {
	store := storage.NewMemory()
	svc := NewService(store, 0, nil, nil)
	svc.newID = func() string { return "abc" }
	return svc, store
}

func TestCreateAndLoad(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	sess, err := svc.Create(ctx, &model.LoginResult{
		AccessToken: "tok",
		User:        model.User{ID: "7", Name: "Dr. Lina", Email: "lina@clinic.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.ID)

	raw, err := store.Get(ctx, "session:abc:access_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", string(raw))

	loaded, err := svc.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)
}

func TestLoad_Guard(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
		user  string
	}{
		{name: "token without user", token: "tok"},
		{name: "user without token", user: `{"id":"1","name":"A"}`},
		{name: "unparseable user", token: "tok", user: `{"id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService()
			if tt.token != "" {
				require.NoError(t, store.Set(ctx, TokenKey("abc"), []byte(tt.token), 0))
			}
			if tt.user != "" {
				require.NoError(t, store.Set(ctx, UserKey("abc"), []byte(tt.user), 0))
			}

			_, err := svc.Load(ctx, "abc")
			assert.ErrorIs(t, err, apperrors.UnauthorizedError)
		})
	}

	svc, _ := newService()
	_, err := svc.Load(ctx, "")
	assert.ErrorIs(t, err, apperrors.UnauthorizedError)
}

func TestDestroy_ClearsBothKeys(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.LoginResult{AccessToken: "tok", User: model.User{ID: "1"}})
	require.NoError(t, err)
	require.NoError(t, svc.Destroy(ctx, "abc"))

	_, err = store.Get(ctx, TokenKey("abc"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Get(ctx, UserKey("abc"))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.Load(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.UnauthorizedError)
}

func TestDestroy_GaugeDropsOnlyForLiveSession(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	store := storage.NewMemory()
	svc := NewService(store, 0, m, nil)
	svc.newID = func() string { return "abc" }
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.LoginResult{AccessToken: "tok", User: model.User{ID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))

	require.NoError(t, svc.Destroy(ctx, "abc"))
	require.NoError(t, svc.Destroy(ctx, "abc"), "a second logout is harmless")
	require.NoError(t, svc.Destroy(ctx, "never-existed"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSessions))
}
