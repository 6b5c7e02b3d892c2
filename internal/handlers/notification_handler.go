package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	page := pagination.FromContext(c)
	list, total, err := h.Svc.Notifications.List(c.Request.Context(), me.ID, c.Query("unread") == "true", page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, list, total, page)
}

func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	n, err := h.Svc.Notifications.UnreadCount(c.Request.Context(), me.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := h.Svc.Notifications.MarkRead(c.Request.Context(), me, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	changed, err := h.Svc.Notifications.MarkAllRead(c.Request.Context(), me.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionNotificationBulkSet, "notification", me.ID)
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

func (h *Handler) BroadcastNotification(c *gin.Context) {
	var req struct {
		UserID  string `json:"userId" binding:"required,objectid"`
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.Svc.Notifications.Broadcast(c.Request.Context(), *optionalID(req.UserID), req.Title, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}
