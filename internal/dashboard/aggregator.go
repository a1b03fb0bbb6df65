package dashboard

import (
	"context"
	"log"

	"github.com/apotekanet/crm-api/internal/gateway"
	"github.com/apotekanet/crm-api/internal/visit"
)

// Stats are the derived dashboard counters.
type Stats struct {
	TotalVisits     int `json:"totalVisits"`
	PlannedVisits   int `json:"plannedVisits"`
	CompletedVisits int `json:"completedVisits"`
	TotalPharmacies int `json:"totalPharmacies"`
}

// Aggregator computes the counters from two independent reads. It is a
// pure derived view: nothing is cached between calls.
type Aggregator struct {
	gw gateway.Gateway
}

func New(gw gateway.Gateway) *Aggregator {
	return &Aggregator{gw: gw}
}

// Collect recomputes all counters. Each read fails independently and
// silently: its counters stay zero and the failure is logged, never
// surfaced.
func (a *Aggregator) Collect(ctx context.Context) Stats {
	var stats Stats

	visits, err := a.gw.List(ctx, gateway.CollectionVisits, "")
	if err != nil {
		log.Printf("dashboard: loading visits failed: %v", err)
	} else {
		stats.TotalVisits = len(visits)
		for _, rec := range visits {
			switch rec.String("status") {
			case visit.StatusPlanned:
				stats.PlannedVisits++
			case visit.StatusCompleted:
				stats.CompletedVisits++
			}
		}
	}

	pharmacies, err := a.gw.List(ctx, gateway.CollectionPharmacies, "")
	if err != nil {
		log.Printf("dashboard: loading pharmacies failed: %v", err)
	} else {
		stats.TotalPharmacies = len(pharmacies)
	}

	return stats
}
