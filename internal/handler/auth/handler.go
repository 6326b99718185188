package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/service/auth"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/httputil"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// SessionForgetter drops per-session state held outside the session store on logout.
type SessionForgetter interface {
	Forget(sessionID string)
}

type Handler struct {
	svc      *auth.Service
	cookie   CookieConfig
	forget   []SessionForgetter
	loginMWs []gin.HandlerFunc
}

// NewHandler builds the login handler. Everything in forget is told about each logout.
// loginMWs run in front of POST /auth/login only.
func NewHandler(svc *auth.Service, cookie CookieConfig, forget []SessionForgetter, loginMWs ...gin.HandlerFunc) *Handler {
	return &Handler{svc: svc, cookie: cookie, forget: forget, loginMWs: loginMWs}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		login := append([]gin.HandlerFunc{}, h.loginMWs...)
		auth.POST("/login", append(login, h.Login)...)
		auth.POST("/logout", h.Logout)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.setCookie(c, sess.ID, h.maxAge())
	httputil.RespondWithSuccess(c, model.ShellView{
		User:      sess.User,
		Tabs:      model.Tabs,
		ActiveTab: model.TabAppointments,
	})
}

// Logout clears the stored credentials. Calling it without a session is harmless.
func (h *Handler) Logout(c *gin.Context) {
	id, _ := c.Cookie(h.cookie.Name)
	if id != "" {
		if err := h.svc.Logout(c.Request.Context(), id); err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		for _, f := range h.forget {
			f.Forget(id)
		}
	}

	h.setCookie(c, "", -1)
	httputil.RespondWithSuccess(c, gin.H{"redirect": "/"})
}

func (h *Handler) maxAge() int {
	return int(h.cookie.TTL / time.Second)
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
