package service

import (
	"context"

	"github.com/identity-service/backend/internal/model"
)

type RoleStore interface {
	CreateRole(ctx context.Context, role *model.Role) error
	ListRoles(ctx context.Context) ([]*model.Role, error)
	DeleteRole(ctx context.Context, name string) error
}

// RoleService manages the role catalog. All operations are admin only.
type RoleService struct {
	roles RoleStore
}

func NewRoleService(roles RoleStore) *RoleService {
	return &RoleService{roles: roles}
}

func (s *RoleService) Create(ctx context.Context, principal *model.Principal, req model.RoleRequest) (*model.RoleResponse, error) {
	if err := requireRole(principal, RoleAdmin); err != nil {
		return nil, err
	}

	role := &model.Role{Name: req.Name, Description: req.Description}
	if err := s.roles.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return &model.RoleResponse{Name: role.Name, Description: role.Description}, nil
}

func (s *RoleService) List(ctx context.Context, principal *model.Principal) ([]*model.RoleResponse, error) {
	if err := requireRole(principal, RoleAdmin); err != nil {
		return nil, err
	}

	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*model.RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, &model.RoleResponse{Name: role.Name, Description: role.Description})
	}
	return responses, nil
}

func (s *RoleService) Delete(ctx context.Context, principal *model.Principal, name string) error {
	if err := requireRole(principal, RoleAdmin); err != nil {
		return err
	}
	return s.roles.DeleteRole(ctx, name)
}
