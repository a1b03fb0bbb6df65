// Package store backs the gateway contract with the Postgres repositories.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/apotekanet/crm-api/internal/auth"
	"github.com/apotekanet/crm-api/internal/gateway"
	"github.com/apotekanet/crm-api/internal/pharmacy"
	"github.com/apotekanet/crm-api/internal/policy"
	"github.com/apotekanet/crm-api/internal/profile"
	"github.com/apotekanet/crm-api/internal/visit"
)

// Store implements gateway.Gateway on top of the entity repositories. The
// acting identity comes from the auth middleware's request context; the
// non-admin visit visibility filter is applied here.
type Store struct {
	db         *gorm.DB
	pharmacies pharmacy.Repository
	visits     visit.Repository
	profiles   profile.Repository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		pharmacies: pharmacy.NewRepository(),
		visits:     visit.NewRepository(),
		profiles:   profile.NewRepository(),
	}
}

func failure(err error) error {
	if err == nil {
		return nil
	}
	return &gateway.Failure{Message: err.Error()}
}

func (s *Store) List(ctx context.Context, collection, orderBy string) ([]gateway.Record, error) {
	switch collection {
	case gateway.CollectionPharmacies:
		rows, err := s.pharmacies.ListAll(s.db, orderBy)
		if err != nil {
			return nil, failure(err)
		}
		out := make([]gateway.Record, len(rows))
		for i, p := range rows {
			out[i] = p.ToRecord()
		}
		return out, nil

	case gateway.CollectionVisits:
		userID, _ := auth.UserIDFrom(ctx)
		var (
			rows []visit.Visit
			err  error
		)
		if auth.RoleFrom(ctx) == policy.RoleAdmin {
			rows, err = s.visits.ListAll(s.db, orderBy)
		} else {
			rows, err = s.visits.ListBySalesRep(s.db, userID, orderBy)
		}
		if err != nil {
			return nil, failure(err)
		}
		out := make([]gateway.Record, len(rows))
		for i, v := range rows {
			out[i] = v.ToRecord()
		}
		return out, nil
	}
	return nil, &gateway.Failure{Message: fmt.Sprintf("unknown collection %q", collection)}
}

func (s *Store) Insert(ctx context.Context, collection string, fields gateway.Record) (gateway.Record, error) {
	switch collection {
	case gateway.CollectionPharmacies:
		p := pharmacy.Pharmacy{
			Name:          fields.String("name"),
			Address:       fields.String("address"),
			City:          fields.String("city"),
			Phone:         fields.StringPtr("phone"),
			Email:         fields.StringPtr("email"),
			ContactPerson: fields.StringPtr("contact_person"),
		}
		if err := s.pharmacies.Save(s.db, &p); err != nil {
			return nil, failure(err)
		}
		return p.ToRecord(), nil

	case gateway.CollectionVisits:
		when, err := time.Parse(time.RFC3339, fields.String("visit_date"))
		if err != nil {
			return nil, &gateway.Failure{Message: "visit_date must be RFC 3339"}
		}
		// referential check before the insert
		if _, err := s.pharmacies.FindByID(s.db, fields.String("pharmacy_id")); err != nil {
			return nil, &gateway.Failure{Message: "pharmacy does not exist"}
		}
		if !visit.ValidStatus(fields.String("status")) {
			return nil, &gateway.Failure{Message: "unknown status"}
		}
		salesRep := fields.String("sales_rep_id")
		if salesRep == "" {
			salesRep, _ = auth.UserIDFrom(ctx)
		}
		v := visit.Visit{
			PharmacyID: fields.String("pharmacy_id"),
			VisitDate:  when.UTC(),
			Status:     fields.String("status"),
			Notes:      fields.StringPtr("notes"),
			SalesRepID: salesRep,
		}
		if err := s.visits.Save(s.db, &v); err != nil {
			return nil, failure(err)
		}
		return v.ToRecord(), nil
	}
	return nil, &gateway.Failure{Message: fmt.Sprintf("unknown collection %q", collection)}
}

func (s *Store) Update(ctx context.Context, collection, id string, fields gateway.Record) (gateway.Record, error) {
	switch collection {
	case gateway.CollectionPharmacies:
		next := pharmacy.Pharmacy{
			Name:          fields.String("name"),
			Address:       fields.String("address"),
			City:          fields.String("city"),
			Phone:         fields.StringPtr("phone"),
			Email:         fields.StringPtr("email"),
			ContactPerson: fields.StringPtr("contact_person"),
		}
		updated, err := s.pharmacies.Update(s.db, id, &next)
		if err != nil {
			return nil, failure(err)
		}
		return updated.ToRecord(), nil

	case gateway.CollectionVisits:
		when, err := time.Parse(time.RFC3339, fields.String("visit_date"))
		if err != nil {
			return nil, &gateway.Failure{Message: "visit_date must be RFC 3339"}
		}
		if !visit.ValidStatus(fields.String("status")) {
			return nil, &gateway.Failure{Message: "unknown status"}
		}
		next := visit.Visit{
			PharmacyID: fields.String("pharmacy_id"),
			VisitDate:  when.UTC(),
			Status:     fields.String("status"),
			Notes:      fields.StringPtr("notes"),
		}
		updated, err := s.visits.Update(s.db, id, &next)
		if err != nil {
			return nil, failure(err)
		}
		return updated.ToRecord(), nil
	}
	return nil, &gateway.Failure{Message: fmt.Sprintf("unknown collection %q", collection)}
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	switch collection {
	case gateway.CollectionPharmacies:
		return failure(s.pharmacies.Delete(s.db, id))
	case gateway.CollectionVisits:
		return failure(s.visits.Delete(s.db, id))
	}
	return &gateway.Failure{Message: fmt.Sprintf("unknown collection %q", collection)}
}

// CurrentIdentity resolves the context credential into a Profile, or nil
// when no credential is present.
func (s *Store) CurrentIdentity(ctx context.Context) (*gateway.Identity, error) {
	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		return nil, nil
	}
	p, err := s.profiles.FindByID(s.db, userID)
	if err != nil {
		return nil, failure(err)
	}
	id := p.Identity()
	return &id, nil
}

// SignOut revokes every live refresh token of the context user.
func (s *Store) SignOut(ctx context.Context) error {
	userID, ok := auth.UserIDFrom(ctx)
	if !ok {
		return nil
	}
	return failure(auth.RevokeAllForUser(s.db, userID))
}
