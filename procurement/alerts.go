package procurement

import (
	"context"

	"github.com/constructiq/docstore"
)

// alertEventStatuses are the accepted lifecycle states of an alert event.
var alertEventStatuses = map[string]struct{}{
	"new":      {},
	"ack":      {},
	"resolved": {},
}

// AlertService manages alert rules and alert events. Evaluating rules
// against incoming prices is not done here; see AlertEvaluator.
type AlertService struct {
	store *docstore.Store
}

func NewAlertService(store *docstore.Store) *AlertService {
	return &AlertService{store: store}
}

// ListRules returns the org's alert rules (at most 100, unordered).
func (s *AlertService) ListRules(ctx context.Context, rc Context) ([]docstore.Document, error) {
	rules, err := s.store.Find(ctx, colAlertRules, rc.orgQuery(), "", false, 0, 100)
	if err != nil {
		return nil, err
	}
	return sanitizeAll(rules), nil
}

func (s *AlertService) CreateRule(ctx context.Context, rc Context, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := requireNonBlank(data, "name", "Alert rule name is required"); err != nil {
		return nil, err
	}
	if _, err := requireNonBlank(data, "type", "Alert rule type is required"); err != nil {
		return nil, err
	}
	doc := data.Clone()
	doc["id"] = docstore.NewID()
	doc["org_id"] = rc.OrgID
	setDefault(doc, "is_active", true)
	setDefault(doc, "params", map[string]any{})
	doc["created_at"] = docstore.NowISO()
	if err := s.store.Upsert(ctx, colAlertRules, doc); err != nil {
		return nil, err
	}
	return sanitize(doc), nil
}

func (s *AlertService) UpdateRule(ctx context.Context, rc Context, ruleID string, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := getOr404(ctx, s.store, colAlertRules, ruleID, rc.OrgID, "Rule not found"); err != nil {
		return nil, err
	}
	updates := data.Clone()
	delete(updates, "id")
	delete(updates, "org_id")
	if _, err := s.store.UpdateByQuery(ctx, colAlertRules, docstore.Query{"id": docstore.Eq(ruleID)}, updates, true); err != nil {
		return nil, err
	}
	return getOr404(ctx, s.store, colAlertRules, ruleID, rc.OrgID, "Rule not found")
}

func (s *AlertService) DeleteRule(ctx context.Context, rc Context, ruleID string) error {
	if err := requireAdmin(rc); err != nil {
		return err
	}
	deleted, err := s.store.DeleteOne(ctx, colAlertRules, ruleID, rc.OrgID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return NotFound("Rule not found")
	}
	return nil
}

// ListEvents returns one page of the org's alert events, most recently
// triggered first, optionally filtered by status, with the product name
// attached to each event.
func (s *AlertService) ListEvents(ctx context.Context, rc Context, page, pageSize int, status string) (Page, error) {
	q := rc.orgQuery()
	if status != "" {
		q["status"] = docstore.Eq(status)
	}
	total, err := s.store.Count(ctx, colAlertEvents, q)
	if err != nil {
		return Page{}, err
	}
	skip, limit := pageWindow(page, pageSize)
	events, err := s.store.Find(ctx, colAlertEvents, q, "triggered_at", true, skip, limit)
	if err != nil {
		return Page{}, err
	}

	productIDs := collectIDs(events, "normalized_product_id")
	names, err := nameIndex(ctx, s.store, rc, colProducts, "canonical_name", productIDs)
	if err != nil {
		return Page{}, err
	}
	decorated := sanitizeAll(events)
	for _, event := range decorated {
		pid := asString(event["normalized_product_id"], "")
		event["product_name"] = nameOrUnknown(names, pid)
	}
	return paginate(decorated, total, page, pageSize), nil
}

// UpdateEventStatus moves an alert event to a new lifecycle state.
func (s *AlertService) UpdateEventStatus(ctx context.Context, rc Context, eventID, newStatus string) error {
	if err := requireAdmin(rc); err != nil {
		return err
	}
	if _, ok := alertEventStatuses[newStatus]; !ok {
		return BadRequest("Invalid status. Allowed values: new, ack, resolved")
	}
	event, err := getOr404(ctx, s.store, colAlertEvents, eventID, rc.OrgID, "Event not found")
	if err != nil {
		return err
	}
	event["status"] = newStatus
	return s.store.Upsert(ctx, colAlertEvents, event)
}
