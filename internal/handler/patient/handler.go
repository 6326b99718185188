package patient

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/internal/middleware"
	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/service/patient"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.POST("/:id/payments", h.AddPayment)
	}
}

// ListPatients filters by ?q= against name and phone.
func (h *Handler) ListPatients(c *gin.Context) {
	view, err := h.service.List(c.Request.Context(), middleware.Session(c), c.Query("q"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.Session(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithStatus(c, http.StatusCreated, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) AddPayment(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	var req model.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	p, err := h.service.AddPayment(c.Request.Context(), middleware.Session(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithStatus(c, http.StatusCreated, p)
}

func patientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid patient ID", err))
		return 0, false
	}
	return id, true
}
