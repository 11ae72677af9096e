package procurement

import (
	"context"
	"net/http"
	"testing"

	"github.com/constructiq/docstore"
)

func TestAlertService_Rules(t *testing.T) {
	svc := NewAlertService(newTestStore(t))
	ctx := context.Background()

	t.Run("create with defaults", func(t *testing.T) {
		rule, err := svc.CreateRule(ctx, adminCtx, docstore.Document{
			"name": "Rebar spike",
			"type": "price_above",
		})
		if err != nil {
			t.Fatalf("CreateRule failed: %v", err)
		}
		if rule["is_active"] != true {
			t.Errorf("is_active default = %v, want true", rule["is_active"])
		}
		if _, ok := rule["params"]; !ok {
			t.Error("params default missing")
		}
	})

	t.Run("name and type required", func(t *testing.T) {
		_, err := svc.CreateRule(ctx, adminCtx, docstore.Document{"type": "price_above"})
		wantStatus(t, err, http.StatusBadRequest)
		_, err = svc.CreateRule(ctx, adminCtx, docstore.Document{"name": "x"})
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("update and delete", func(t *testing.T) {
		rule, err := svc.CreateRule(ctx, adminCtx, docstore.Document{
			"name": "Cement drift", "type": "pct_change",
		})
		if err != nil {
			t.Fatalf("CreateRule failed: %v", err)
		}

		updated, err := svc.UpdateRule(ctx, adminCtx, rule.ID(), docstore.Document{"is_active": false})
		if err != nil {
			t.Fatalf("UpdateRule failed: %v", err)
		}
		if updated["is_active"] != false {
			t.Errorf("is_active = %v, want false", updated["is_active"])
		}

		if err := svc.DeleteRule(ctx, adminCtx, rule.ID()); err != nil {
			t.Fatalf("DeleteRule failed: %v", err)
		}
		err = svc.DeleteRule(ctx, adminCtx, rule.ID())
		wantStatus(t, err, http.StatusNotFound)
	})

	t.Run("list is tenant scoped", func(t *testing.T) {
		if _, err := svc.CreateRule(ctx, otherOrg, docstore.Document{"name": "foreign", "type": "price_above"}); err != nil {
			t.Fatalf("CreateRule failed: %v", err)
		}
		rules, err := svc.ListRules(ctx, adminCtx)
		if err != nil {
			t.Fatalf("ListRules failed: %v", err)
		}
		for _, r := range rules {
			if r["name"] == "foreign" {
				t.Error("Foreign org's rule leaked into the list")
			}
		}
	})

	t.Run("admin only", func(t *testing.T) {
		_, err := svc.CreateRule(ctx, memberCtx, docstore.Document{"name": "x", "type": "y"})
		wantStatus(t, err, http.StatusForbidden)
	})
}

func seedAlertEvent(t *testing.T, store *docstore.Store, orgID, productID, status, triggeredAt string) string {
	t.Helper()
	id := docstore.NewID()
	err := store.Upsert(context.Background(), "alert_events", docstore.Document{
		"id":                    id,
		"org_id":                orgID,
		"rule_id":               "rule-1",
		"normalized_product_id": productID,
		"status":                status,
		"triggered_at":          triggeredAt,
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	return id
}

func TestAlertService_Events(t *testing.T) {
	store := newTestStore(t)
	svc := NewAlertService(store)
	ctx := context.Background()

	if err := store.Upsert(ctx, "normalized_products", docstore.Document{
		"id": "np-rebar", "org_id": "org-1", "canonical_name": "Rebar #5 Grade 60",
	}); err != nil {
		t.Fatalf("Upsert product failed: %v", err)
	}
	first := seedAlertEvent(t, store, "org-1", "np-rebar", "new", "2026-08-01T00:00:00Z")
	seedAlertEvent(t, store, "org-1", "np-ghost", "new", "2026-08-02T00:00:00Z")
	seedAlertEvent(t, store, "org-2", "np-rebar", "new", "2026-08-03T00:00:00Z")

	t.Run("list decorates product names, newest first", func(t *testing.T) {
		p, err := svc.ListEvents(ctx, adminCtx, 1, 20, "")
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if p.Total != 2 {
			t.Fatalf("Total = %d, want 2 (tenant scoped)", p.Total)
		}
		if p.Items[0]["product_name"] != "Unknown" {
			t.Errorf("Unmatched product should decorate as Unknown, got %v", p.Items[0]["product_name"])
		}
		if p.Items[1]["product_name"] != "Rebar #5 Grade 60" {
			t.Errorf("product_name = %v", p.Items[1]["product_name"])
		}
	})

	t.Run("status transitions", func(t *testing.T) {
		if err := svc.UpdateEventStatus(ctx, adminCtx, first, "ack"); err != nil {
			t.Fatalf("UpdateEventStatus failed: %v", err)
		}
		p, err := svc.ListEvents(ctx, adminCtx, 1, 20, "ack")
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if p.Total != 1 {
			t.Errorf("Acked total = %d, want 1", p.Total)
		}

		err = svc.UpdateEventStatus(ctx, adminCtx, first, "snoozed")
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("cross-org event is invisible", func(t *testing.T) {
		err := svc.UpdateEventStatus(ctx, otherOrg, first, "resolved")
		wantStatus(t, err, http.StatusNotFound)
	})
}
