package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/internal/model"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/httputil"
)

const contextSession = "session"

// LoginPath is where the shell sends a visitor without a session.
const LoginPath = "/"

// SessionLoader resolves a session id to its stored credentials.
type SessionLoader interface {
	Load(ctx context.Context, id string) (*model.Session, error)
}

// RequireSession admits the request only when the session cookie names a session whose token
// and user are both stored. Otherwise it answers 401 with a redirect to the login screen.
func RequireSession(loader SessionLoader, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			httputil.RespondWithRedirect(c, http.StatusUnauthorized, "Please log in", LoginPath)
			return
		}

		sess, err := loader.Load(c.Request.Context(), id)
		if errors.Is(err, apperrors.UnauthorizedError) {
			httputil.RespondWithRedirect(c, http.StatusUnauthorized, "Please log in", LoginPath)
			return
		}
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		c.Set(contextSession, sess)
		c.Next()
	}
}

// Session returns the session RequireSession attached, or nil.
func Session(c *gin.Context) *model.Session {
	v, ok := c.Get(contextSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.Session)
	return sess
}
