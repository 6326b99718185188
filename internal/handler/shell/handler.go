package shell

import (
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/internal/middleware"
	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/pkg/httputil"
)

// Handler serves the tab bar and the signed-in user's header.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/shell", h.Shell)
}

// Shell reports the active tab; unknown tabs fall back to appointments.
func (h *Handler) Shell(c *gin.Context) {
	sess := middleware.Session(c)

	tab := c.Query("tab")
	if !slices.Contains(model.Tabs, tab) {
		tab = model.TabAppointments
	}

	httputil.RespondWithSuccess(c, model.ShellView{
		User:      sess.User,
		Tabs:      model.Tabs,
		ActiveTab: tab,
	})
}
