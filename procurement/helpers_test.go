package procurement

import (
	"context"
	"fmt"
	"testing"

	"github.com/constructiq/docstore"

	_ "github.com/mattn/go-sqlite3"
)

// newTestStore opens an in-memory SQLite store. One connection only, so
// every statement sees the same memory database.
func newTestStore(t *testing.T) *docstore.Store {
	t.Helper()

	cfg := docstore.DefaultConfig("sqlite3", ":memory:")
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	store, err := docstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return store
}

var (
	adminCtx  = Context{OrgID: "org-1", UserID: "u-admin", Role: "admin"}
	memberCtx = Context{OrgID: "org-1", UserID: "u-member", Role: "member"}
	otherOrg  = Context{OrgID: "org-2", UserID: "u-other", Role: "admin"}
)

// wantStatus asserts err is a RequestError with the given HTTP status.
func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	re, ok := AsRequestError(err)
	if !ok {
		t.Fatalf("Expected RequestError, got %v", err)
	}
	if re.Status != status {
		t.Fatalf("Status = %d, want %d (%s)", re.Status, status, re.Message)
	}
}

func TestContext(t *testing.T) {
	if !adminCtx.IsAdmin() {
		t.Error("admin role should report IsAdmin")
	}
	if !(Context{Role: "ADMIN"}).IsAdmin() {
		t.Error("role check should be case-insensitive")
	}
	if memberCtx.IsAdmin() {
		t.Error("member role should not report IsAdmin")
	}
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		page, pageSize, skip, limit int
	}{
		{1, 20, 0, 20},
		{3, 10, 20, 10},
		{0, 10, 0, 10},  // page clamps to 1
		{-5, 10, 0, 10}, // so does anything below
	}
	for _, tc := range cases {
		skip, limit := pageWindow(tc.page, tc.pageSize)
		if skip != tc.skip || limit != tc.limit {
			t.Errorf("pageWindow(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.pageSize, skip, limit, tc.skip, tc.limit)
		}
	}
}

func TestPaginate(t *testing.T) {
	p := paginate([]docstore.Document{{"id": "a"}}, 7, 2, 3)
	if p.Total != 7 || p.Page != 2 || p.PageSize != 3 {
		t.Errorf("Envelope wrong: %+v", p)
	}
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}

	if got := paginate(nil, 0, 1, 0).TotalPages; got != 0 {
		t.Errorf("TotalPages with pageSize 0 = %d, want 0", got)
	}
}

func TestConversionHelpers(t *testing.T) {
	t.Run("asString", func(t *testing.T) {
		if asString("x", "d") != "x" || asString(nil, "d") != "d" {
			t.Error("asString basic cases wrong")
		}
		if asString(float64(3), "d") != "3" {
			t.Errorf("asString(3.0) = %q", asString(float64(3), "d"))
		}
	})

	t.Run("asFloat", func(t *testing.T) {
		if asFloat(2.5, 0) != 2.5 || asFloat(nil, 9) != 9 {
			t.Error("asFloat basic cases wrong")
		}
		if asFloat("3.5", 0) != 3.5 {
			t.Error("asFloat should parse numeric strings")
		}
		if asFloat("junk", 7) != 7 {
			t.Error("asFloat should fall back on unparseable strings")
		}
	})

	t.Run("asList", func(t *testing.T) {
		if got := asList([]any{"a"}); len(got) != 1 {
			t.Error("asList should pass through slices")
		}
		if got := asList("not a list"); len(got) != 0 {
			t.Error("asList should yield empty for non-slices")
		}
	})
}

func TestSanitize(t *testing.T) {
	doc := docstore.Document{"id": "1", "_id": "mongo-legacy", "name": "x"}
	out := sanitize(doc)
	if _, leaked := out["_id"]; leaked {
		t.Error("sanitize should strip _id")
	}
	if out["id"] != "1" || out["name"] != "x" {
		t.Error("sanitize dropped a public field")
	}
	if _, still := doc["_id"]; !still {
		t.Error("sanitize should not mutate its input")
	}
	if sanitize(nil) != nil {
		t.Error("sanitize(nil) should stay nil")
	}
}

func TestRequestErrors(t *testing.T) {
	if re, ok := AsRequestError(BadRequest("nope")); !ok || re.Status != 400 {
		t.Error("BadRequest should carry status 400")
	}
	if re, ok := AsRequestError(NotFound("gone")); !ok || re.Status != 404 {
		t.Error("NotFound should carry status 404")
	}
	if re, ok := AsRequestError(Forbidden("no")); !ok || re.Status != 403 {
		t.Error("Forbidden should carry status 403")
	}
	if _, ok := AsRequestError(fmt.Errorf("plain")); ok {
		t.Error("Plain errors are not RequestErrors")
	}
}
