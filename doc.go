// Package docstore lets MongoDB-shaped queries run against a single SQL
// table with a JSON payload column. It is the storage engine of the
// ConstructIQ procurement backend: controllers and services talk to it as
// if it were a document database while the data lives in PostgreSQL (or
// SQLite for tests and single-node use).
//
// # Overview
//
// Each stored Document is a JSON object keyed by (collection, id), with an
// optional org_id for tenant scoping. Queries are conjunctions of per-field
// conditions built from a closed set of filters:
//
//   - Eq: stringified equality
//   - Contains: case-insensitive substring
//   - In: stringified set membership
//   - Gte: lexicographic lower bound (RFC 3339 timestamp cutoffs)
//
// Per query the store plans an execution: string-literal equality
// conditions on a small allow-list of fields (org_id, id, status, foreign
// keys, ...) compile to parameterized JSON-path WHERE clauses, and if
// nothing else remains the
// sort and pagination are pushed into SQL too. Any other condition makes
// the plan complex: the store fetches the superset matching the simple
// clauses, evaluates the full query in memory, then sorts and paginates
// there. The two paths are observationally identical for queries both can
// run.
//
// # Quick Start
//
//	store, err := docstore.Open(docstore.DefaultConfig("sqlite3", "file:app.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//	ctx := context.Background()
//	store.EnsureSchema(ctx)
//
//	store.Upsert(ctx, "suppliers", docstore.Document{
//	    "id": docstore.NewID(), "org_id": "org-1", "name": "Steel Solutions Inc.",
//	})
//
//	steel, err := store.Find(ctx, "suppliers", docstore.Query{
//	    "org_id": docstore.Eq("org-1"),
//	    "name":   docstore.Contains("steel"),
//	}, "name", false, 0, 10)
//
// Production setup with observability:
//
//	logger, _ := docstore.NewProductionZapLogger()
//	metrics := docstore.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	store.SetLogger(logger)
//	store.SetMetrics(metrics)
//
// # Semantics worth knowing
//
// All query operands compare as strings, even for numeric fields. This is
// deliberate: it keeps RFC 3339 timestamp ranges correct and matches the
// behavior the rest of the system was built against, but it means Gte("10")
// admits "9". Upsert replaces the whole payload (last writer wins);
// UpdateByQuery shallow-merges and cannot remove fields. Tenant isolation
// is the caller's job: include org_id in every query.
//
// The typed service layer for procurement entities lives in the
// procurement subpackage.
package docstore
