package dto

import (
	"time"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest payload, admin only.
type CreateUserRequest struct {
	Nombre   string          `json:"nombre" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Rol      domain.UserRole `json:"rol" validate:"required"`
}

// UserResponse is the wire form of an operator. The password hash never
// leaves the server.
type UserResponse struct {
	ID        string                `json:"id"`
	Nombre    string                `json:"nombre"`
	Email     string                `json:"email"`
	Rol       domain.UserRole       `json:"rol"`
	Estado    domain.LifecycleState `json:"estado"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// UserFromDomain maps an operator to its wire form.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Nombre:    u.Name,
		Email:     u.Email,
		Rol:       u.Role,
		Estado:    u.State,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Geography list items for the address form endpoints.

type CountryResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type RegionResponse struct {
	ID     string `json:"id"`
	PaisID string `json:"paisId"`
	Nombre string `json:"nombre"`
}

type ProvinceResponse struct {
	ID       string `json:"id"`
	RegionID string `json:"regionId"`
	Nombre   string `json:"nombre"`
}

type ComunaResponse struct {
	ID          string `json:"id"`
	ProvinciaID string `json:"provinciaId"`
	Nombre      string `json:"nombre"`
}
