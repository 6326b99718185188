package appointment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/internal/middleware"
	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/service/appointment"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.PATCH("/:id/confirm", h.ConfirmAppointment)
		appointments.DELETE("/:id", h.CancelAppointment)
	}
}

// ListAppointments serves the panel for ?date= (today when absent).
func (h *Handler) ListAppointments(c *gin.Context) {
	view, err := h.service.List(c.Request.Context(), middleware.Session(c), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	view, err := h.service.Create(c.Request.Context(), middleware.Session(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithStatus(c, http.StatusCreated, view)
}

func (h *Handler) ConfirmAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	view, err := h.service.Confirm(c.Request.Context(), middleware.Session(c), id, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	view, err := h.service.Cancel(c.Request.Context(), middleware.Session(c), id, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func appointmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment ID", err))
		return 0, false
	}
	return id, true
}
