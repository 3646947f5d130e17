package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserTypeIndividual = "individual"
	UserTypeOrg        = "org"
	UserTypeGuest      = "guest"
)

type User struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	Role            string     `db:"role" json:"role"`
	ProfileImageURL string     `db:"profile_image_url" json:"profile_image_url"`
	UserType        string     `db:"user_type" json:"user_type"`
	DateOfBirth     *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	OrganizationID  *string    `db:"organization_id" json:"organization_id,omitempty"`
	APIKey          *string    `db:"api_key" json:"-"`
	LastActiveAt    time.Time  `db:"last_active_at" json:"last_active_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

func (u *User) IsGuest() bool {
	return u.UserType == UserTypeGuest
}
