package procurement

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/constructiq/docstore"
)

func TestProjectService_Create(t *testing.T) {
	svc := NewProjectService(newTestStore(t))
	ctx := context.Background()

	t.Run("stamps identity and defaults", func(t *testing.T) {
		doc, err := svc.Create(ctx, adminCtx, docstore.Document{"name": "Harbor Expansion"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if doc.ID() == "" || !docstore.IsValidID(doc.ID()) {
			t.Errorf("Create should assign an id, got %q", doc.ID())
		}
		if doc["org_id"] != "org-1" {
			t.Errorf("org_id = %v", doc["org_id"])
		}
		if doc["status"] != "active" {
			t.Errorf("status default = %v, want active", doc["status"])
		}
		if doc["created_at"] == nil || doc["updated_at"] == nil {
			t.Error("Create should stamp timestamps")
		}
	})

	t.Run("caller status wins over the default", func(t *testing.T) {
		doc, err := svc.Create(ctx, adminCtx, docstore.Document{"name": "X", "status": "on_hold"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if doc["status"] != "on_hold" {
			t.Errorf("status = %v, want on_hold", doc["status"])
		}
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.Create(ctx, adminCtx, docstore.Document{"name": "   "})
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("admin only", func(t *testing.T) {
		_, err := svc.Create(ctx, memberCtx, docstore.Document{"name": "Nope"})
		wantStatus(t, err, http.StatusForbidden)
	})
}

func TestProjectService_GetUpdateDelete(t *testing.T) {
	svc := NewProjectService(newTestStore(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, adminCtx, docstore.Document{"name": "Bridge Retrofit"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	id := created.ID()

	t.Run("get", func(t *testing.T) {
		doc, err := svc.Get(ctx, adminCtx, id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if doc["name"] != "Bridge Retrofit" {
			t.Errorf("name = %v", doc["name"])
		}
	})

	t.Run("get across orgs is a 404", func(t *testing.T) {
		_, err := svc.Get(ctx, otherOrg, id)
		wantStatus(t, err, http.StatusNotFound)
	})

	t.Run("update merges fields", func(t *testing.T) {
		doc, err := svc.Update(ctx, adminCtx, id, docstore.Document{"status": "completed"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if doc["status"] != "completed" {
			t.Errorf("status = %v", doc["status"])
		}
		if doc["name"] != "Bridge Retrofit" {
			t.Error("Update dropped an untouched field")
		}
	})

	t.Run("update cannot move tenants", func(t *testing.T) {
		doc, err := svc.Update(ctx, adminCtx, id, docstore.Document{"org_id": "org-2", "id": "hijack"})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if doc["org_id"] != "org-1" || doc.ID() != id {
			t.Errorf("Identity fields changed: org=%v id=%v", doc["org_id"], doc.ID())
		}
	})

	t.Run("blank name on update rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, adminCtx, id, docstore.Document{"name": ""})
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("delete from the wrong org is a 404", func(t *testing.T) {
		err := svc.Delete(ctx, otherOrg, id)
		wantStatus(t, err, http.StatusNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		if err := svc.Delete(ctx, adminCtx, id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, err := svc.Get(ctx, adminCtx, id)
		wantStatus(t, err, http.StatusNotFound)
	})
}

func TestProjectService_List(t *testing.T) {
	svc := NewProjectService(newTestStore(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		status := "active"
		if i >= 3 {
			status = "completed"
		}
		if _, err := svc.Create(ctx, adminCtx, docstore.Document{
			"name":   fmt.Sprintf("Project %d", i),
			"status": status,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := svc.Create(ctx, otherOrg, docstore.Document{"name": "Foreign"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("lists only the caller's org", func(t *testing.T) {
		p, err := svc.List(ctx, adminCtx, 1, 20, "")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if p.Total != 5 || len(p.Items) != 5 {
			t.Errorf("Total = %d, items = %d, want 5/5", p.Total, len(p.Items))
		}
	})

	t.Run("status filter", func(t *testing.T) {
		p, err := svc.List(ctx, adminCtx, 1, 20, "completed")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if p.Total != 2 {
			t.Errorf("Total = %d, want 2", p.Total)
		}
	})

	t.Run("pagination envelope", func(t *testing.T) {
		p, err := svc.List(ctx, adminCtx, 2, 2, "")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(p.Items) != 2 || p.Page != 2 || p.TotalPages != 3 {
			t.Errorf("Envelope wrong: items=%d page=%d totalPages=%d", len(p.Items), p.Page, p.TotalPages)
		}
	})
}
