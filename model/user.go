package model

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)

// ParseRole normalises the backend's role spelling ("USER", "Owner", ...).
// Anything that is not an owner is treated as a regular user.
func ParseRole(value string) Role {
	if strings.EqualFold(strings.TrimSpace(value), string(RoleOwner)) {
		return RoleOwner
	}
	return RoleUser
}

// Wire returns the role as the backend expects it on registration.
func (r Role) Wire() string {
	return strings.ToUpper(string(r))
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ParseRole(raw)
	return nil
}

type User struct {
	Id              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	ProfileImageUrl string `json:"profileImageUrl,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Location        string `json:"location,omitempty"`
	Bio             string `json:"bio,omitempty"`
	TheatreName     string `json:"theatreName,omitempty"`
}

func (u User) IsOwner() bool {
	return u.Role == RoleOwner
}

// AuthResponse is the login/registration payload: a user, optionally
// accompanied by the bearer token to use for authenticated calls.
type AuthResponse struct {
	User
	Token string `json:"token,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	TheatreName *string `json:"theatreName"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
}

type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

type UploadResponse struct {
	ImageUrl string `json:"imageUrl"`
}
