package pharmacy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// Pharmacy is one partner pharmacy. Optional columns are stored as null,
// never as an empty string.
type Pharmacy struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Pharmacy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p Pharmacy) EntityID() string { return p.ID }

// Option is the id+name pair used to fill the visit form's dropdown.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FromRecord coerces a gateway record into a Pharmacy. Internal logic never
// touches raw records past this boundary.
func FromRecord(r gateway.Record) (Pharmacy, error) {
	p := Pharmacy{
		ID:            r.String("id"),
		Name:          r.String("name"),
		Address:       r.String("address"),
		City:          r.String("city"),
		Phone:         r.StringPtr("phone"),
		Email:         r.StringPtr("email"),
		ContactPerson: r.StringPtr("contact_person"),
	}
	if p.ID == "" {
		return Pharmacy{}, fmt.Errorf("pharmacy record without id")
	}
	if p.Name == "" || p.Address == "" || p.City == "" {
		return Pharmacy{}, fmt.Errorf("pharmacy record %s missing required fields", p.ID)
	}
	return p, nil
}

// ToRecord is the inverse boundary. Optional fields come out as nil when
// unset so the backend stores null.
func (p Pharmacy) ToRecord() gateway.Record {
	r := gateway.Record{
		"id":      p.ID,
		"name":    p.Name,
		"address": p.Address,
		"city":    p.City,
	}
	r["phone"] = stringOrNil(p.Phone)
	r["email"] = stringOrNil(p.Email)
	r["contact_person"] = stringOrNil(p.ContactPerson)
	return r
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
