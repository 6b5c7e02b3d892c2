package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type createAppointmentRequest struct {
	PatientID string `json:"patientId" binding:"omitempty,objectid"`
	DoctorID  string `json:"doctorId" binding:"required,objectid"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
}

// --- CREATE APPOINTMENT ---
func (h *Handler) CreateAppointment(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.AppointmentInput{
		DoctorID:  *optionalID(req.DoctorID),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Type:      req.Type,
		Notes:     req.Notes,
	}
	if pid := optionalID(req.PatientID); pid != nil {
		in.PatientID = *pid
	}

	apt, err := h.Svc.Appointments.Create(c.Request.Context(), me, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionAppointmentCreate, "appointment", apt.ID)
	c.JSON(http.StatusCreated, apt)
}

// --- GET APPOINTMENTS (with Filtering & Sorting) ---
func (h *Handler) GetAppointments(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	patientID, ok := queryID(c, "patientId")
	if !ok {
		return
	}
	doctorID, ok := queryID(c, "doctorId")
	if !ok {
		return
	}

	page := pagination.FromContext(c)
	apts, total, err := h.Svc.Appointments.List(c.Request.Context(), me, services.AppointmentQuery{
		PatientID: patientID,
		DoctorID:  doctorID,
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Desc:      c.Query("order") == "desc",
	}, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, apts, total, page)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	apt, err := h.Svc.Appointments.Get(c.Request.Context(), me, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}

	apt, err := h.Svc.Appointments.UpdateStatus(c.Request.Context(), me, id, req.Status, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionAppointmentStatus, "appointment", apt.ID)
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	apt, err := h.Svc.Appointments.Cancel(c.Request.Context(), me, id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionAppointmentCancel, "appointment", apt.ID)
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		StartTime string `json:"startTime" binding:"required"`
		EndTime   string `json:"endTime" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	apt, err := h.Svc.Appointments.Reschedule(c.Request.Context(), me, id, req.StartTime, req.EndTime)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionAppointmentMove, "appointment", apt.ID)
	c.JSON(http.StatusOK, apt)
}
