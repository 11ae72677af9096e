package procurement

import (
	"context"

	"github.com/constructiq/docstore"
)

// Stats is the dashboard aggregate: per-collection counts for the org plus
// its most recent RFQs, quotes and alert events.
type Stats struct {
	ProjectsCount  int64               `json:"projects_count"`
	SuppliersCount int64               `json:"suppliers_count"`
	RFQsCount      int64               `json:"rfqs_count"`
	QuotesCount    int64               `json:"quotes_count"`
	ActiveAlerts   int64               `json:"active_alerts"`
	RecentRFQs     []docstore.Document `json:"recent_rfqs"`
	RecentQuotes   []docstore.Document `json:"recent_quotes"`
	RecentAlerts   []docstore.Document `json:"recent_alerts"`
}

// DashboardService assembles the org overview from the other collections.
type DashboardService struct {
	store *docstore.Store
}

func NewDashboardService(store *docstore.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Stats runs the dashboard counts and recent-item queries. Active alerts
// are the org's events still in the new status; recents carry the five
// latest entries each.
func (s *DashboardService) Stats(ctx context.Context, rc Context) (Stats, error) {
	out := Stats{}
	q := rc.orgQuery()

	counts := []struct {
		collection string
		dest       *int64
	}{
		{colProjects, &out.ProjectsCount},
		{colSuppliers, &out.SuppliersCount},
		{colRFQs, &out.RFQsCount},
		{colQuotes, &out.QuotesCount},
	}
	for _, c := range counts {
		n, err := s.store.Count(ctx, c.collection, q)
		if err != nil {
			return Stats{}, err
		}
		*c.dest = n
	}

	active, err := s.store.Count(ctx, colAlertEvents, docstore.Query{
		"org_id": docstore.Eq(rc.OrgID),
		"status": docstore.Eq("new"),
	})
	if err != nil {
		return Stats{}, err
	}
	out.ActiveAlerts = active

	recents := []struct {
		collection string
		sortField  string
		dest       *[]docstore.Document
	}{
		{colRFQs, "created_at", &out.RecentRFQs},
		{colQuotes, "created_at", &out.RecentQuotes},
		{colAlertEvents, "triggered_at", &out.RecentAlerts},
	}
	for _, r := range recents {
		docs, err := s.store.Find(ctx, r.collection, q, r.sortField, true, 0, 5)
		if err != nil {
			return Stats{}, err
		}
		*r.dest = sanitizeAll(docs)
	}
	return out, nil
}
