package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// Profile is one system user. Role is one of the policy package's roles.
type Profile struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Identity maps the stored profile onto the gateway's identity shape.
func (p Profile) Identity() gateway.Identity {
	return gateway.Identity{ID: p.ID, FullName: p.FullName, Role: p.Role}
}
