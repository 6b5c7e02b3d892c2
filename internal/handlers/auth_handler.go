package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type RegisterUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Svc.Auth.Register(c.Request.Context(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, services.Actor{ID: user.ID, Role: user.Role}, services.ActionRegister, "user", user.ID)

	// Password carries json:"-".
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, user, err := h.Svc.Auth.Login(c.Request.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, services.Actor{ID: user.ID, Role: user.Role}, services.ActionLogin, "user", user.ID)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetCurrentUser retrieves the profile of the currently authenticated user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	user, err := h.Svc.Users.Get(c.Request.Context(), me.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser lets a user change their own name and phone.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		FullName *string `json:"fullName"`
		Phone    *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.Svc.Users.UpdateProfile(c.Request.Context(), me.ID, services.UserUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	page := pagination.FromContext(c)
	users, total, err := h.Svc.Users.List(c.Request.Context(), c.Query("role"), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, users, total, page)
}
