package auth

import (
	"github.com/sinargas/sinargas-backend/internal/domain"
)

type Account struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         domain.Role
	BranchID     *string
	IsActive     bool
}

type RegisterInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	NIK      string  `json:"nik"`
	KK       string  `json:"kk"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
	BranchID *string `json:"branchId"`

	StreetAddress *string `json:"streetAddress"`
	Subdistrict   *string `json:"subdistrict"`
	District      *string `json:"district"`
	Village       *string `json:"village"`
	City          *string `json:"city"`
	Province      *string `json:"province"`
	PostalCode    *string `json:"postalCode"`
}

type RegisterResult struct {
	UserID string `json:"userId"`
}

type LoginResult struct {
	AccessToken string `json:"token"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
}
