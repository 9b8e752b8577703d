package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/model"
	"github.com/identity-service/backend/internal/service"
)

type RoleHandler struct {
	svc *service.RoleService
}

func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// Create godoc
// @Summary Create a role (admin)
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req model.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.New(apperr.InvalidKey))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), GetPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// List godoc
// @Summary List roles (admin)
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), GetPrincipal(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, resp)
}

// Delete godoc
// @Summary Delete a role (admin)
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIResponse
// @Router /roles/{role} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetPrincipal(c), c.Param("role")); err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, nil)
}
