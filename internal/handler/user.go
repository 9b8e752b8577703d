package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/model"
	"github.com/identity-service/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.UserCreationRequest true "Profile and credentials"
// @Success 200 {object} model.APIResponse
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req model.UserCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.InvalidKey))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// List godoc
// @Summary List all users (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), GetPrincipal(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// Get godoc
// @Summary Fetch one user (owner or admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /users/{userId} [get]
func (h *UserHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), GetPrincipal(c), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// MyInfo godoc
// @Summary Fetch the caller's own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /users/myInfo [get]
func (h *UserHandler) MyInfo(c *gin.Context) {
	principal := GetPrincipal(c)
	if principal == nil {
		writeError(c, apperr.New(apperr.Unauthenticated))
		return
	}

	resp, err := h.svc.GetMyInfo(c.Request.Context(), principal)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// Update godoc
// @Summary Update a user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /users/{userId} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req model.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.InvalidKey))
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /users/{userId} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("userId")); err != nil {
		writeError(c, err)
		return
	}
	writeMessage(c, "User has been deleted")
}
