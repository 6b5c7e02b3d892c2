package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type createDoctorRequest struct {
	RegisterUserRequest
	Specialty       string          `json:"specialty" binding:"required"`
	Department      string          `json:"department"`
	Bio             string          `json:"bio"`
	YearsExperience int             `json:"yearsExperience" binding:"gte=0"`
	ConsultationFee decimal.Decimal `json:"consultationFee"`
	AvailableDays   []string        `json:"availableDays"`
}

type updateDoctorRequest struct {
	Specialty       *string          `json:"specialty"`
	Department      *string          `json:"department"`
	Bio             *string          `json:"bio"`
	YearsExperience *int             `json:"yearsExperience"`
	ConsultationFee *decimal.Decimal `json:"consultationFee"`
	AvailableDays   []string         `json:"availableDays"`
	Active          *bool            `json:"active"`
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	doc, err := h.Svc.Doctors.Create(c.Request.Context(), services.DoctorInput{
		RegisterInput: services.RegisterInput{
			FullName: req.FullName,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		},
		Specialty:       req.Specialty,
		Department:      req.Department,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
		ConsultationFee: req.ConsultationFee,
		AvailableDays:   req.AvailableDays,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionDoctorCreate, "doctor", doc.ID)
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	f := models.DoctorFilter{
		Specialty:  c.Query("specialty"),
		Department: c.Query("department"),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active must be true or false"})
			return
		}
		f.Active = &active
	}

	page := pagination.FromContext(c)
	doctors, total, err := h.Svc.Doctors.List(c.Request.Context(), f, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, doctors, total, page)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := h.Svc.Doctors.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) FeaturedDoctor(c *gin.Context) {
	doc, err := h.Svc.Doctors.Featured(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	doc, err := h.Svc.Doctors.Update(c.Request.Context(), me, id, services.DoctorUpdate{
		Specialty:       req.Specialty,
		Department:      req.Department,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
		ConsultationFee: req.ConsultationFee,
		AvailableDays:   req.AvailableDays,
		Active:          req.Active,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeactivateDoctor is the DELETE route. Doctors are only ever deactivated.
func (h *Handler) DeactivateDoctor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := h.Svc.Doctors.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DoctorFeedback(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	page := pagination.FromContext(c)
	list, total, err := h.Svc.Feedback.ForDoctor(c.Request.Context(), id, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, list, total, page)
}
