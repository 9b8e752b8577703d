package model

import "time"

// DobLayout is the wire format for dates of birth.
const DobLayout = "2006-01-02"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Dob          time.Time
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role struct {
	Name        string
	Description string
}

type UserCreationRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Dob       string `json:"dob"`
}

type UserUpdateRequest struct {
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Dob       string `json:"dob"`
}

type UserResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Dob       string   `json:"dob"`
	Roles     []string `json:"roles"`
}

func ToUserResponse(user *User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
	}
	if !user.Dob.IsZero() {
		resp.Dob = user.Dob.Format(DobLayout)
	}
	return resp
}

type RoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RoleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
