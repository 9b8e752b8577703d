package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/model"
	"github.com/identity-service/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Token godoc
// @Summary Authenticate and issue an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.AuthenticationRequest true "Username and password"
// @Success 200 {object} model.APIResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req model.AuthenticationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.InvalidKey))
		return
	}

	resp, err := h.svc.Authenticate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// Introspect godoc
// @Summary Check token validity
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.IntrospectRequest true "Token to check"
// @Success 200 {object} model.APIResponse
// @Router /auth/introspect [post]
func (h *AuthHandler) Introspect(c *gin.Context) {
	var req model.IntrospectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.InvalidKey))
		return
	}

	resp, err := h.svc.Introspect(req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.Unauthenticated))
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// Logout godoc
// @Summary Invalidate the refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.Unauthenticated))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, nil)
}
