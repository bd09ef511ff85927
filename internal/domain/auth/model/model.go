package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the credential record owned by the store. PasswordHash never
// leaves the service: it has no JSON form and is absent from Identity.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:120"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns the identifier when the caller did not.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Identity is the public view of a user attached to authenticated requests.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    uuid.UUID
	Email     string
}
