package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

func (h *Handler) SubmitFeedback(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		DoctorID      string `json:"doctorId" binding:"omitempty,objectid"`
		AppointmentID string `json:"appointmentId" binding:"omitempty,objectid"`
		Rating        int    `json:"rating" binding:"required,min=1,max=5"`
		Comment       string `json:"comment"`
		Category      string `json:"category"`
	}
	if !bindJSON(c, &req) {
		return
	}

	fb, err := h.Svc.Feedback.Submit(c.Request.Context(), me, services.FeedbackInput{
		DoctorID:      optionalID(req.DoctorID),
		AppointmentID: optionalID(req.AppointmentID),
		Rating:        req.Rating,
		Comment:       req.Comment,
		Category:      req.Category,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionFeedbackSubmit, "feedback", fb.ID)
	c.JSON(http.StatusCreated, fb)
}

func (h *Handler) ListFeedback(c *gin.Context) {
	doctorID, ok := queryID(c, "doctorId")
	if !ok {
		return
	}
	page := pagination.FromContext(c)
	list, total, err := h.Svc.Feedback.List(c.Request.Context(), models.FeedbackFilter{
		DoctorID: doctorID,
		Category: c.Query("category"),
	}, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, list, total, page)
}
