package gateway

import "context"

// Record is the loosely-typed row shape the backend speaks. Each entity
// package owns the conversion to and from its concrete struct; nothing
// outside those boundaries works with a raw Record.
type Record map[string]any

// Identity is the authenticated user's cached profile.
type Identity struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Collection names understood by every Gateway implementation.
const (
	CollectionPharmacies = "pharmacies"
	CollectionVisits     = "visits"
)

// Gateway executes CRUD against named collections and resolves the acting
// identity. Failures carry a human-readable message that is shown to the
// user verbatim.
type Gateway interface {
	List(ctx context.Context, collection, orderBy string) ([]Record, error)
	Insert(ctx context.Context, collection string, fields Record) (Record, error)
	Update(ctx context.Context, collection, id string, fields Record) (Record, error)
	Delete(ctx context.Context, collection, id string) error

	CurrentIdentity(ctx context.Context) (*Identity, error)
	SignOut(ctx context.Context) error
}

// Failure is a backend-reported error. Message is end-user text.
type Failure struct {
	Message string
}

func (f *Failure) Error() string { return f.Message }

// String returns a Record field as a string, tolerating nil and absent keys.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// StringPtr returns a Record field as *string, nil for absent, nil or empty
// values. Optional columns are stored as null, never as "".
func (r Record) StringPtr(key string) *string {
	s := r.String(key)
	if s == "" {
		return nil
	}
	return &s
}
