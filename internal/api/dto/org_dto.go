package dto

import (
	"time"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/optional"
)

// CreateCompanyRequest payload.
type CreateCompanyRequest struct {
	Nombre      string  `json:"nombre" validate:"required"`
	RUT         string  `json:"rut" validate:"required"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Telefono    *string `json:"telefono"`
	LogoURL     *string `json:"logoUrl"`
	DireccionID *string `json:"direccionId"`
}

// UpdateCompanyRequest payload.
type UpdateCompanyRequest struct {
	Nombre      optional.Field[string] `json:"nombre"`
	RUT         optional.Field[string] `json:"rut"`
	Email       optional.Field[string] `json:"email"`
	Telefono    optional.Field[string] `json:"telefono"`
	LogoURL     optional.Field[string] `json:"logoUrl"`
	DireccionID optional.Field[string] `json:"direccionId"`
}

// CompanyResponse is the wire form of a company.
type CompanyResponse struct {
	ID          string                `json:"id"`
	Nombre      string                `json:"nombre"`
	RUT         string                `json:"rut"`
	Email       *string               `json:"email"`
	Telefono    *string               `json:"telefono"`
	LogoURL     *string               `json:"logoUrl"`
	DireccionID *string               `json:"direccionId"`
	Estado      domain.LifecycleState `json:"estado"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// CompanyFromDomain maps a company to its wire form.
func CompanyFromDomain(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Nombre:      c.Name,
		RUT:         c.RUT,
		Email:       c.Email,
		Telefono:    c.Phone,
		LogoURL:     c.LogoURL,
		DireccionID: c.AddressID,
		Estado:      c.State,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateBranchRequest payload. The address travels inline and is matched
// against existing addresses by street, number and comuna.
type CreateBranchRequest struct {
	Nombre    string  `json:"nombre" validate:"required"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email" validate:"omitempty,email"`
	EmpresaID *string `json:"empresaId"`
	ComunaID  string  `json:"comunaId" validate:"required"`
	Calle     string  `json:"calle" validate:"required"`
	Numero    string  `json:"numero" validate:"required"`
	Depto     *string `json:"depto"`
}

// UpdateBranchRequest payload.
type UpdateBranchRequest struct {
	Nombre    optional.Field[string] `json:"nombre"`
	Telefono  optional.Field[string] `json:"telefono"`
	Email     optional.Field[string] `json:"email"`
	EmpresaID optional.Field[string] `json:"empresaId"`
}

// BranchResponse is the wire form of a branch.
type BranchResponse struct {
	ID          string                `json:"id"`
	Nombre      string                `json:"nombre"`
	Telefono    *string               `json:"telefono"`
	Email       *string               `json:"email"`
	DireccionID string                `json:"direccionId"`
	EmpresaID   *string               `json:"empresaId"`
	Estado      domain.LifecycleState `json:"estado"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// BranchFromDomain maps a branch to its wire form.
func BranchFromDomain(b *domain.Branch) BranchResponse {
	return BranchResponse{
		ID:          b.ID,
		Nombre:      b.Name,
		Telefono:    b.Phone,
		Email:       b.Email,
		DireccionID: b.AddressID,
		EmpresaID:   b.CompanyID,
		Estado:      b.State,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// CreateLocationRequest payload.
type CreateLocationRequest struct {
	SucursalID        string  `json:"sucursalId" validate:"required"`
	NombreReferencial *string `json:"nombreReferencial"`
	Notas             *string `json:"notas"`
}

// UpdateLocationRequest payload.
type UpdateLocationRequest struct {
	NombreReferencial optional.Field[string] `json:"nombreReferencial"`
	Notas             optional.Field[string] `json:"notas"`
}

// LocationResponse is the wire form of a location.
type LocationResponse struct {
	ID                string                `json:"id"`
	SucursalID        string                `json:"sucursalId"`
	NombreReferencial *string               `json:"nombreReferencial"`
	Notas             *string               `json:"notas"`
	Estado            domain.LifecycleState `json:"estado"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// LocationFromDomain maps a location to its wire form.
func LocationFromDomain(l *domain.Location) LocationResponse {
	return LocationResponse{
		ID:                l.ID,
		SucursalID:        l.BranchID,
		NombreReferencial: l.ReferenceName,
		Notas:             l.Notes,
		Estado:            l.State,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// CreateContactRequest payload.
type CreateContactRequest struct {
	EmpresaID   string  `json:"empresaId" validate:"required"`
	UbicacionID *string `json:"ubicacionId"`
	Nombre      string  `json:"nombre" validate:"required"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Telefono    *string `json:"telefono"`
	Cargo       *string `json:"cargo"`
}

// UpdateContactRequest payload.
type UpdateContactRequest struct {
	UbicacionID optional.Field[string] `json:"ubicacionId"`
	Nombre      optional.Field[string] `json:"nombre"`
	Email       optional.Field[string] `json:"email"`
	Telefono    optional.Field[string] `json:"telefono"`
	Cargo       optional.Field[string] `json:"cargo"`
}

// ContactResponse is the wire form of a contact.
type ContactResponse struct {
	ID          string                `json:"id"`
	EmpresaID   string                `json:"empresaId"`
	UbicacionID *string               `json:"ubicacionId"`
	Nombre      string                `json:"nombre"`
	Email       *string               `json:"email"`
	Telefono    *string               `json:"telefono"`
	Cargo       *string               `json:"cargo"`
	Estado      domain.LifecycleState `json:"estado"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// ContactFromDomain maps a contact to its wire form.
func ContactFromDomain(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		EmpresaID:   c.CompanyID,
		UbicacionID: c.LocationID,
		Nombre:      c.Name,
		Email:       c.Email,
		Telefono:    c.Phone,
		Cargo:       c.Role,
		Estado:      c.State,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// DeleteResultResponse reports the outcome of a guarded delete.
type DeleteResultResponse struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}
