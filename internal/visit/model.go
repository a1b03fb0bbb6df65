package visit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// Visit statuses.
const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

func ValidStatus(s string) bool {
	return s == StatusPlanned || s == StatusCompleted || s == StatusCancelled
}

// Visit is one logged or planned pharmacy visit. SalesRepID is set at
// creation to the acting identity and never changes afterwards.
type Visit struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	PharmacyID string    `json:"pharmacy_id" gorm:"index"`
	VisitDate  time.Time `json:"visit_date"`
	Status     string    `json:"status"`
	Notes      *string   `json:"notes,omitempty"`
	SalesRepID string    `json:"sales_rep_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

func (v Visit) EntityID() string { return v.ID }

// FromRecord coerces a gateway record into a Visit. visit_date arrives
// either as a time.Time or as an RFC 3339 string depending on the backend.
func FromRecord(r gateway.Record) (Visit, error) {
	v := Visit{
		ID:         r.String("id"),
		PharmacyID: r.String("pharmacy_id"),
		Status:     r.String("status"),
		Notes:      r.StringPtr("notes"),
		SalesRepID: r.String("sales_rep_id"),
	}
	if v.ID == "" {
		return Visit{}, fmt.Errorf("visit record without id")
	}
	if v.PharmacyID == "" {
		return Visit{}, fmt.Errorf("visit record %s without pharmacy_id", v.ID)
	}
	if !ValidStatus(v.Status) {
		return Visit{}, fmt.Errorf("visit record %s with unknown status %q", v.ID, v.Status)
	}

	switch raw := r["visit_date"].(type) {
	case time.Time:
		v.VisitDate = raw.UTC()
	case string:
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Visit{}, fmt.Errorf("visit record %s with bad visit_date: %w", v.ID, err)
		}
		v.VisitDate = t.UTC()
	default:
		return Visit{}, fmt.Errorf("visit record %s without visit_date", v.ID)
	}
	return v, nil
}

// ToRecord is the inverse boundary; visit_date goes out as RFC 3339 UTC.
func (v Visit) ToRecord() gateway.Record {
	r := gateway.Record{
		"id":           v.ID,
		"pharmacy_id":  v.PharmacyID,
		"visit_date":   v.VisitDate.UTC().Format(time.RFC3339),
		"status":       v.Status,
		"sales_rep_id": v.SalesRepID,
	}
	if v.Notes == nil {
		r["notes"] = nil
	} else {
		r["notes"] = *v.Notes
	}
	return r
}

// Less orders visits ascending by date; the visits snapshot is kept in this
// order at all times.
func Less(a, b Visit) bool { return a.VisitDate.Before(b.VisitDate) }
