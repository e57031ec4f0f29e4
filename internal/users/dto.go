package users

import (
	"time"

	"github.com/angelmondragon/printcrm/pkg/db/models"
)

// SignupRequest is the staff sign-up form.
type SignupRequest struct {
	FullName string `json:"fullname" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserDTO is the public view of a staff account.
type UserDTO struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromModel maps a persisted user to its public view.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:        m.ID,
		FullName:  m.FullName,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}
