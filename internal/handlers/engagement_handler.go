package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) TrackEngagement(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		Event    string            `json:"event" binding:"required"`
		Metadata map[string]string `json:"metadata"`
	}
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.Svc.Engagement.Track(c.Request.Context(), me, req.Event, req.Metadata)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) EngagementSummary(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	sum, err := h.Svc.Engagement.Summary(c.Request.Context(), me.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
