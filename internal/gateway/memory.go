package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory Gateway for tests and local development. Ids are
// server-assigned uuids; List orders lexicographically by the requested
// field, which for RFC 3339 timestamps is chronological order.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]Record
	identity    *Identity
	signedOut   bool
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Record)}
}

// SetIdentity installs the identity CurrentIdentity resolves to.
func (m *Memory) SetIdentity(id Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = &id
	m.signedOut = false
}

func (m *Memory) List(ctx context.Context, collection, orderBy string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.collections[collection]
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = cloneRecord(r)
	}
	if orderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].String(orderBy) < out[j].String(orderBy)
		})
	}
	return out, nil
}

// visitStatuses is the status set the real backend accepts; Memory
// rejects anything else the same way.
var visitStatuses = map[string]struct{}{
	"planned":   {},
	"completed": {},
	"cancelled": {},
}

func validVisitStatus(s string) bool {
	_, ok := visitStatuses[s]
	return ok
}

func (m *Memory) Insert(ctx context.Context, collection string, fields Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// referential and schema checks are the gateway's job, not the client's
	if collection == CollectionVisits {
		if !m.existsLocked(CollectionPharmacies, fields.String("pharmacy_id")) {
			return nil, &Failure{Message: "pharmacy does not exist"}
		}
		if !validVisitStatus(fields.String("status")) {
			return nil, &Failure{Message: "unknown status"}
		}
	}

	rec := cloneRecord(fields)
	rec["id"] = uuid.NewString()
	m.collections[collection] = append(m.collections[collection], rec)
	return cloneRecord(rec), nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if collection == CollectionVisits {
		if s, ok := fields["status"]; ok {
			str, _ := s.(string)
			if !validVisitStatus(str) {
				return nil, &Failure{Message: "unknown status"}
			}
		}
	}

	for i, r := range m.collections[collection] {
		if r.String("id") == id {
			next := cloneRecord(r)
			for k, v := range fields {
				// the visit owner is assigned at insert and never moves
				if collection == CollectionVisits && k == "sales_rep_id" {
					continue
				}
				next[k] = v
			}
			next["id"] = id
			m.collections[collection][i] = next
			return cloneRecord(next), nil
		}
	}
	return nil, &Failure{Message: fmt.Sprintf("no row with id %s in %s", id, collection)}
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.collections[collection]
	for i, r := range rows {
		if r.String("id") == id {
			m.collections[collection] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return &Failure{Message: fmt.Sprintf("no row with id %s in %s", id, collection)}
}

func (m *Memory) CurrentIdentity(ctx context.Context) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.signedOut || m.identity == nil {
		return nil, nil
	}
	id := *m.identity
	return &id, nil
}

func (m *Memory) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signedOut = true
	return nil
}

func (m *Memory) existsLocked(collection, id string) bool {
	for _, r := range m.collections[collection] {
		if r.String("id") == id {
			return true
		}
	}
	return false
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
