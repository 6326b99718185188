package settings

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/internal/middleware"
	"github.com/jwalitptl/dental-console/internal/model"
	"github.com/jwalitptl/dental-console/internal/service/settings"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/httputil"
)

type Handler struct {
	service *settings.Service
}

func NewHandler(service *settings.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	s := r.Group("/settings")
	{
		s.GET("", h.GetSettings)
		s.PUT("", h.SaveSettings)
		s.PATCH("", h.PatchSettings)
		s.PUT("/edit/:field", h.EditField)
		s.PUT("/hours/:day", h.UpdateHours)
	}
}

// GetSettings returns the session's editing state, opened from storage on first use.
func (h *Handler) GetSettings(c *gin.Context) {
	d, err := h.service.Draft(c.Request.Context(), middleware.Session(c).ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

// SaveSettings persists the given settings, or the session's draft when the body is empty.
func (h *Handler) SaveSettings(c *gin.Context) {
	sess := middleware.Session(c)
	raw, err := c.GetRawData()
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	var d settings.Draft
	if len(raw) == 0 {
		d, err = h.service.SaveDraft(c.Request.Context(), sess.ID)
	} else {
		var s model.ClinicSettings
		if err := json.Unmarshal(raw, &s); err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
			return
		}
		d, err = h.service.Replace(c.Request.Context(), sess.ID, s)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

// PatchSettings merges the keys present in the body into the stored settings.
func (h *Handler) PatchSettings(c *gin.Context) {
	sess := middleware.Session(c)
	raw, err := c.GetRawData()
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	d, err := h.service.PatchDraft(c.Request.Context(), sess.ID, raw)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

type editRequest struct {
	Value *string `json:"value"`
}

// EditField puts :field in edit mode and, if a value is sent, sets it.
func (h *Handler) EditField(c *gin.Context) {
	var req editRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
			return
		}
	}

	d, err := h.service.Edit(c.Request.Context(), middleware.Session(c).ID, c.Param("field"), req.Value)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) UpdateHours(c *gin.Context) {
	var req settings.HoursUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	d, err := h.service.UpdateHours(c.Request.Context(), middleware.Session(c).ID, c.Param("day"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}
