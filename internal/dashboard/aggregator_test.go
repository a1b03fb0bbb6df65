package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// splitGateway fails or answers per collection.
type splitGateway struct {
	visits        []gateway.Record
	visitsErr     error
	pharmacies    []gateway.Record
	pharmaciesErr error
}

func (s *splitGateway) List(ctx context.Context, collection, orderBy string) ([]gateway.Record, error) {
	switch collection {
	case gateway.CollectionVisits:
		return s.visits, s.visitsErr
	case gateway.CollectionPharmacies:
		return s.pharmacies, s.pharmaciesErr
	}
	return nil, &gateway.Failure{Message: "unknown collection"}
}

func (s *splitGateway) Insert(ctx context.Context, collection string, fields gateway.Record) (gateway.Record, error) {
	return nil, nil
}

func (s *splitGateway) Update(ctx context.Context, collection, id string, fields gateway.Record) (gateway.Record, error) {
	return nil, nil
}

func (s *splitGateway) Delete(ctx context.Context, collection, id string) error { return nil }

func (s *splitGateway) CurrentIdentity(ctx context.Context) (*gateway.Identity, error) {
	return nil, nil
}

func (s *splitGateway) SignOut(ctx context.Context) error { return nil }

func TestCollectCountsByStatus(t *testing.T) {
	gw := &splitGateway{
		visits: []gateway.Record{
			{"id": "v1", "status": "planned"},
			{"id": "v2", "status": "planned"},
			{"id": "v3", "status": "completed"},
			{"id": "v4", "status": "cancelled"},
		},
		pharmacies: []gateway.Record{{"id": "p1"}, {"id": "p2"}},
	}

	stats := New(gw).Collect(context.Background())

	assert.Equal(t, Stats{
		TotalVisits:     4,
		PlannedVisits:   2,
		CompletedVisits: 1,
		TotalPharmacies: 2,
	}, stats)
}

func TestCollectDegradesPerReadOnFailure(t *testing.T) {
	gw := &splitGateway{
		visitsErr:  &gateway.Failure{Message: "backend down"},
		pharmacies: []gateway.Record{{"id": "p1"}, {"id": "p2"}, {"id": "p3"}},
	}

	stats := New(gw).Collect(context.Background())

	assert.Equal(t, 0, stats.TotalVisits)
	assert.Equal(t, 0, stats.PlannedVisits)
	assert.Equal(t, 0, stats.CompletedVisits)
	assert.Equal(t, 3, stats.TotalPharmacies)
}

func TestCollectWithBothReadsFailing(t *testing.T) {
	gw := &splitGateway{
		visitsErr:     &gateway.Failure{Message: "down"},
		pharmaciesErr: &gateway.Failure{Message: "down"},
	}

	stats := New(gw).Collect(context.Background())

	require.Equal(t, Stats{}, stats)
}
