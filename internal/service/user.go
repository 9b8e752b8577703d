package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/db"
	"github.com/identity-service/backend/internal/model"
	"github.com/identity-service/backend/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the external credential store.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, userID string) error
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Create registers a new user with the default USER role.
func (s *UserService) Create(ctx context.Context, req model.UserCreationRequest) (*model.UserResponse, error) {
	if err := validate.Translate(validate.UserCreation(req)); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.UserExisted)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	dob, _ := time.Parse(model.DobLayout, req.Dob)
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Dob:          dob,
		Roles:        []string{RoleUser},
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.UserExisted)
		}
		return nil, err
	}
	return model.ToUserResponse(user), nil
}

// List returns all users. Admin only (pre-check).
func (s *UserService) List(ctx context.Context, principal *model.Principal) ([]*model.UserResponse, error) {
	if err := requireRole(principal, RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*model.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, model.ToUserResponse(user))
	}
	return responses, nil
}

// Get fetches one user by id. The result is checked after the fact: it is
// returned only to its owner or an admin, and discarded otherwise.
func (s *UserService) Get(ctx context.Context, principal *model.Principal, userID string) (*model.UserResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.UserNotExisted)
		}
		return nil, err
	}

	if err := requireOwnerOrAdmin(principal, user.Username); err != nil {
		return nil, err
	}
	return model.ToUserResponse(user), nil
}

// GetMyInfo returns the caller's own profile.
func (s *UserService) GetMyInfo(ctx context.Context, principal *model.Principal) (*model.UserResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, principal.Username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.UserNotExisted)
		}
		return nil, err
	}
	return model.ToUserResponse(user), nil
}

// Update mutates a user's profile; the password is re-hashed only when a new
// one is supplied.
func (s *UserService) Update(ctx context.Context, userID string, req model.UserUpdateRequest) (*model.UserResponse, error) {
	if err := validate.Translate(validate.UserUpdate(req)); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.UserNotExisted)
		}
		return nil, err
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Dob != "" {
		dob, _ := time.Parse(model.DobLayout, req.Dob)
		user.Dob = dob
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return model.ToUserResponse(user), nil
}

// Delete removes a user. Deleting an absent id is a no-op.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.users.DeleteUser(ctx, userID)
}

// EnsureAdmin creates the bootstrap admin account when missing.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil || exists {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Roles:        []string{RoleAdmin},
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}
	log.Printf("admin user %q created with the default password, change it", username)
	return nil
}
