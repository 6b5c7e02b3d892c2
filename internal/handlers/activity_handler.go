package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

func (h *Handler) ListActivity(c *gin.Context) {
	userID, ok := queryID(c, "userId")
	if !ok {
		return
	}
	h.listActivity(c, models.ActivityFilter{UserID: userID, Action: c.Query("action")})
}

func (h *Handler) MyActivity(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	h.listActivity(c, models.ActivityFilter{UserID: me.ID, Action: c.Query("action")})
}

func (h *Handler) listActivity(c *gin.Context, f models.ActivityFilter) {
	page := pagination.FromContext(c)
	logs, total, err := h.Svc.Activity.List(c.Request.Context(), f, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, logs, total, page)
}
