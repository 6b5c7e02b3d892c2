package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

type updatePatientRequest struct {
	DateOfBirth      *string                  `json:"dateOfBirth"`
	Gender           *string                  `json:"gender"`
	BloodGroup       *string                  `json:"bloodGroup"`
	Address          *string                  `json:"address"`
	Allergies        []string                 `json:"allergies"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact"`
}

func (h *Handler) ListPatients(c *gin.Context) {
	page := pagination.FromContext(c)
	patients, total, err := h.Svc.Patients.List(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, patients, total, page)
}

func (h *Handler) GetPatient(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Patients.Get(c.Request.Context(), me, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	upd := services.PatientUpdate{
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		Address:          req.Address,
		Allergies:        req.Allergies,
		EmergencyContact: req.EmergencyContact,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dateOfBirth must be YYYY-MM-DD"})
			return
		}
		upd.DateOfBirth = &dob
	}

	p, err := h.Svc.Patients.Update(c.Request.Context(), me, id, upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Patients.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionPatientDelete, "patient", id)
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}
