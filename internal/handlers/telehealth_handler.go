package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

func (h *Handler) CreateTelehealthSession(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		AppointmentID string `json:"appointmentId" binding:"required,objectid"`
	}
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Svc.Telehealth.Create(c.Request.Context(), me, *optionalID(req.AppointmentID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionTelehealthCreate, "telehealth_session", s.ID)
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListTelehealthSessions(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	page := pagination.FromContext(c)
	list, total, err := h.Svc.Telehealth.List(c.Request.Context(), me, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, list, total, page)
}

type sessionAction func(ctx context.Context, actor services.Actor, id primitive.ObjectID) (*models.TelehealthSession, error)

// sessionRoute adapts the single-session operations, which share one shape.
func (h *Handler) sessionRoute(action sessionAction, activity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, ok := actor(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		s, err := action(c.Request.Context(), me, id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if activity != "" {
			h.record(c, me, activity, "telehealth_session", s.ID)
		}
		c.JSON(http.StatusOK, s)
	}
}

func (h *Handler) GetTelehealthSession() gin.HandlerFunc {
	return h.sessionRoute(h.Svc.Telehealth.Get, "")
}

func (h *Handler) JoinTelehealthSession() gin.HandlerFunc {
	return h.sessionRoute(h.Svc.Telehealth.Join, "")
}

func (h *Handler) LeaveTelehealthSession() gin.HandlerFunc {
	return h.sessionRoute(h.Svc.Telehealth.Leave, "")
}

func (h *Handler) EndTelehealthSession() gin.HandlerFunc {
	return h.sessionRoute(h.Svc.Telehealth.End, services.ActionTelehealthEnd)
}
