package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store lets schemaless, document-shaped queries run against a single SQL
// table with a JSON payload column. Per query it decides whether filtering
// can be pushed into SQL (allow-listed equality clauses) or has to fall back
// to fetching a superset and evaluating predicates in memory; callers see
// document-database semantics either way.
//
// The store is stateless beyond the connection pool: no caches, no locks.
// Tenant scoping is a caller convention (org_id in the query), not an
// engine guarantee.
type Store struct {
	db          *sqlx.DB
	dialect     Dialect
	logger      Logger
	metrics     Metrics
	skipCorrupt bool
}

// NewStore creates a store with no-op logging and metrics.
func NewStore(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// NewStoreWithObservability creates a store with logging and metrics.
func NewStoreWithObservability(db *sqlx.DB, dialect Dialect, logger Logger, metrics Metrics) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		logger:  logger,
		metrics: metrics,
	}
}

// SetLogger updates the logger for this store.
func (s *Store) SetLogger(logger Logger) { s.logger = logger }

// SetMetrics updates the metrics collector for this store.
func (s *Store) SetMetrics(metrics Metrics) { s.metrics = metrics }

// DB exposes the underlying handle for schema tooling and tests.
func (s *Store) DB() *sqlx.DB { return s.db }

// Ping checks database health.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts doc or replaces the stored payload for its (collection, id)
// pair wholesale; this is not a merge. The id and org_id fields are also
// projected into dedicated indexed columns, purely to speed up the simple
// SQL path — the JSON payload stays the source of truth for every field.
func (s *Store) Upsert(ctx context.Context, collection string, doc Document) error {
	start := time.Now()
	defer func() { s.metrics.Timing(MetricUpsertDuration, time.Since(start)) }()

	if err := s.upsertIn(ctx, s.db, collection, doc); err != nil {
		s.metrics.Increment(MetricUpsertError)
		return err
	}
	return nil
}

func (s *Store) upsertIn(ctx context.Context, ext sqlx.ExtContext, collection string, doc Document) error {
	id := doc.ID()
	if id == "" {
		return WithContext(ErrMissingID, map[string]any{"collection": collection})
	}
	var orgID any
	if v, ok := doc["org_id"]; ok && v != nil {
		orgID = stringValue(v)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return storageError(err, map[string]any{"collection": collection, "id": id})
	}

	_, err = ext.ExecContext(ctx, ext.Rebind(s.dialect.UpsertSQL()), collection, id, orgID, string(payload))
	if err != nil {
		return storageError(err, map[string]any{"collection": collection, "id": id})
	}
	return nil
}

// FindOne returns the document with the given id, or ErrNotFound.
func (s *Store) FindOne(ctx context.Context, collection, docID string) (Document, error) {
	docs, err := s.selectDocs(ctx, s.db, collection,
		"SELECT json_data FROM documents WHERE collection_name = ? AND doc_id = ? LIMIT 1",
		collection, docID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, WithContext(ErrNotFound, map[string]any{"collection": collection, "id": docID})
	}
	return docs[0], nil
}

// FindOneInOrg returns the document only if its stored org_id equals orgID;
// a tenant mismatch reads as ErrNotFound, never as a different error. An
// empty orgID matches documents stored without an org.
func (s *Store) FindOneInOrg(ctx context.Context, collection, docID, orgID string) (Document, error) {
	doc, err := s.FindOne(ctx, collection, docID)
	if err != nil {
		return nil, err
	}
	if doc.OrgID() != orgID {
		return nil, WithContext(ErrNotFound, map[string]any{"collection": collection, "id": docID, "org_id": orgID})
	}
	return doc, nil
}

// DeleteOne removes the document with the given id, guarded by null-safe
// org_id equality: an empty orgID only deletes documents stored without an
// org. Returns the number of rows removed (0 or 1).
func (s *Store) DeleteOne(ctx context.Context, collection, docID, orgID string) (int64, error) {
	start := time.Now()
	defer func() { s.metrics.Timing(MetricDeleteDuration, time.Since(start)) }()

	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		"DELETE FROM documents WHERE collection_name = ? AND doc_id = ? AND ((org_id = ?) OR (org_id IS NULL AND ? = ''))"),
		collection, docID, orgID, orgID)
	if err != nil {
		s.metrics.Increment(MetricDeleteError)
		return 0, storageError(err, map[string]any{"collection": collection, "id": docID})
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageError(err, map[string]any{"collection": collection, "id": docID})
	}
	return n, nil
}

// FindAll returns every document in the collection, unordered.
func (s *Store) FindAll(ctx context.Context, collection string) ([]Document, error) {
	return s.selectDocs(ctx, s.db, collection,
		"SELECT json_data FROM documents WHERE collection_name = ?", collection)
}

// Find returns the documents matching q, ordered by sortField and sliced to
// [skip, skip+limit). limit <= 0 means no limit. With a purely simple query
// the filtering, ordering and pagination all run inside SQL; as soon as any
// complex clause appears the store fetches the simple-matching superset and
// finishes in memory. Pushing LIMIT down before complex filtering would drop
// matching rows, so it never happens.
func (s *Store) Find(ctx context.Context, collection string, q Query, sortField string, descending bool, skip, limit int) ([]Document, error) {
	start := time.Now()
	defer func() { s.metrics.Timing(MetricFindDuration, time.Since(start)) }()

	if sortField != "" && !validIdent(sortField) {
		return nil, WithContext(ErrInvalidSortField, map[string]any{"sort_field": sortField})
	}

	plan := planQuery(q)
	s.trackPlan(plan)

	if plan.complex {
		docs, err := s.filterIn(ctx, s.db, collection, q, plan)
		if err != nil {
			s.metrics.Increment(MetricFindError)
			return nil, err
		}
		docs = sortAndPage(docs, sortField, descending, skip, limit)
		s.metrics.Histogram(MetricQueryResults, float64(len(docs)))
		return docs, nil
	}

	where, args := s.whereSQL(plan)
	query := "SELECT json_data FROM documents WHERE collection_name = ?" + where
	qargs := append([]any{collection}, args...)

	if sortField != "" {
		direction := " ASC"
		if descending {
			direction = " DESC"
		}
		query += " ORDER BY " + s.dialect.JSONField(sortField) + direction
	}
	if limit > 0 {
		offset := skip
		if offset < 0 {
			offset = 0
		}
		query += " LIMIT ? OFFSET ?"
		qargs = append(qargs, limit, offset)
	}

	docs, err := s.selectDocs(ctx, s.db, collection, query, qargs...)
	if err != nil {
		s.metrics.Increment(MetricFindError)
		return nil, err
	}
	// OFFSET needs a LIMIT on SQLite, so a skip without a limit is
	// applied here instead.
	if limit <= 0 && skip > 0 {
		if skip >= len(docs) {
			docs = []Document{}
		} else {
			docs = docs[skip:]
		}
	}
	s.metrics.Histogram(MetricQueryResults, float64(len(docs)))
	return docs, nil
}

// Count returns the number of documents matching q. On the simple path this
// is a SQL COUNT(*); with complex clauses it degrades to fetch-then-count,
// mirroring Find's classification exactly.
func (s *Store) Count(ctx context.Context, collection string, q Query) (int64, error) {
	start := time.Now()
	defer func() { s.metrics.Timing(MetricCountDuration, time.Since(start)) }()

	plan := planQuery(q)
	s.trackPlan(plan)

	if plan.complex {
		docs, err := s.filterIn(ctx, s.db, collection, q, plan)
		if err != nil {
			s.metrics.Increment(MetricCountError)
			return 0, err
		}
		return int64(len(docs)), nil
	}

	where, args := s.whereSQL(plan)
	var n int64
	err := s.db.GetContext(ctx, &n,
		s.db.Rebind("SELECT COUNT(*) FROM documents WHERE collection_name = ?"+where),
		append([]any{collection}, args...)...)
	if err != nil {
		s.metrics.Increment(MetricCountError)
		return 0, storageError(err, map[string]any{"collection": collection})
	}
	return n, nil
}

// UpdateByQuery shallow-merges updates into every document matching q (or
// only the first when single is true) and re-upserts each one. Fields can be
// added or overwritten, never removed. The whole read-merge-write batch runs
// in one transaction so a concurrent reader never observes a partially
// updated batch. Returns the number of documents updated.
func (s *Store) UpdateByQuery(ctx context.Context, collection string, q Query, updates Document, single bool) (int64, error) {
	start := time.Now()
	defer func() { s.metrics.Timing(MetricUpdateDuration, time.Since(start)) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.metrics.Increment(MetricUpdateError)
		return 0, storageError(err, map[string]any{"collection": collection})
	}
	defer func() { _ = tx.Rollback() }()

	plan := planQuery(q)
	matched, err := s.filterIn(ctx, tx, collection, q, plan)
	if err != nil {
		s.metrics.Increment(MetricUpdateError)
		return 0, err
	}

	var updated int64
	for _, doc := range matched {
		if doc.ID() == "" {
			continue
		}
		merged := doc.Clone()
		merged.Apply(updates)
		if err := s.upsertIn(ctx, tx, collection, merged); err != nil {
			s.metrics.Increment(MetricUpdateError)
			return 0, err
		}
		updated++
		if single {
			break
		}
	}

	if err := tx.Commit(); err != nil {
		s.metrics.Increment(MetricUpdateError)
		return 0, storageError(err, map[string]any{"collection": collection})
	}
	return updated, nil
}

// DeleteByQuery physically removes every document matching q, or at most one
// when single is true. Returns the number of rows removed.
func (s *Store) DeleteByQuery(ctx context.Context, collection string, q Query, single bool) (int64, error) {
	start := time.Now()
	defer func() { s.metrics.Timing(MetricDeleteDuration, time.Since(start)) }()

	plan := planQuery(q)
	matched, err := s.filterIn(ctx, s.db, collection, q, plan)
	if err != nil {
		s.metrics.Increment(MetricDeleteError)
		return 0, err
	}

	var deleted int64
	for _, doc := range matched {
		id := doc.ID()
		if id == "" {
			continue
		}
		res, err := s.db.ExecContext(ctx,
			s.db.Rebind("DELETE FROM documents WHERE collection_name = ? AND doc_id = ?"),
			collection, id)
		if err != nil {
			s.metrics.Increment(MetricDeleteError)
			return deleted, storageError(err, map[string]any{"collection": collection, "id": id})
		}
		n, err := res.RowsAffected()
		if err != nil {
			return deleted, storageError(err, map[string]any{"collection": collection, "id": id})
		}
		deleted += n
		if single && deleted > 0 {
			break
		}
	}
	return deleted, nil
}

// Distinct returns the unique string forms of field across the documents
// matching q. Duplicates are removed keeping the first occurrence; documents
// without the field contribute nothing.
func (s *Store) Distinct(ctx context.Context, collection, field string, q Query) ([]string, error) {
	start := time.Now()
	defer func() { s.metrics.Timing(MetricDistinctDuration, time.Since(start)) }()

	plan := planQuery(q)
	matched, err := s.filterIn(ctx, s.db, collection, q, plan)
	if err != nil {
		s.metrics.Increment(MetricDistinctError)
		return nil, err
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, doc := range matched {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		sv := stringValue(v)
		if _, dup := seen[sv]; dup {
			continue
		}
		seen[sv] = struct{}{}
		out = append(out, sv)
	}
	return out, nil
}

// UpdateFields merges updates into the document with the given id and
// re-upserts it. A missing document is a no-op, not an error.
func (s *Store) UpdateFields(ctx context.Context, collection, docID string, updates Document) error {
	doc, err := s.FindOne(ctx, collection, docID)
	if IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	doc.Apply(updates)
	return s.Upsert(ctx, collection, doc)
}

// filterIn fetches the rows satisfying the plan's simple clauses (or the
// whole collection when there are none) and, when the plan is complex,
// finishes filtering with the in-memory evaluator. No sort, no pagination:
// callers that need those apply them afterwards.
func (s *Store) filterIn(ctx context.Context, ext sqlx.ExtContext, collection string, q Query, plan queryPlan) ([]Document, error) {
	where, args := s.whereSQL(plan)
	docs, err := s.selectDocs(ctx, ext, collection,
		"SELECT json_data FROM documents WHERE collection_name = ?"+where,
		append([]any{collection}, args...)...)
	if err != nil {
		return nil, err
	}
	if !plan.complex {
		return docs, nil
	}

	matched := []Document{}
	for _, doc := range docs {
		if matchQuery(doc, q) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// whereSQL renders the plan's equality clauses as an AND chain ready to
// append after the collection_name condition.
func (s *Store) whereSQL(plan queryPlan) (string, []any) {
	clause := ""
	args := make([]any, 0, len(plan.equalities))
	for _, eq := range plan.equalities {
		clause += " AND " + s.dialect.JSONField(eq.field) + " = ?"
		args = append(args, eq.value)
	}
	return clause, args
}

// selectDocs runs a single-column json_data query and decodes each row,
// applying the corrupt-payload policy.
func (s *Store) selectDocs(ctx context.Context, ext sqlx.ExtContext, collection, query string, args ...any) ([]Document, error) {
	rows, err := ext.QueryContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return nil, storageError(err, map[string]any{"collection": collection})
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storageError(err, map[string]any{"collection": collection})
		}
		doc, err := s.decodeRow(collection, raw)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, map[string]any{"collection": collection})
	}
	return docs, nil
}

// decodeRow parses one stored payload. Under the default fail-loud policy a
// parse failure surfaces as ErrCorruptDocument; with SkipCorrupt the row is
// logged, counted and dropped (nil, nil).
func (s *Store) decodeRow(collection string, raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		if s.skipCorrupt {
			s.logger.Warn("skipping corrupt document", "collection", collection, "error", err)
			s.metrics.Increment(MetricCorruptSkipped)
			return nil, nil
		}
		return nil, WithContext(fmt.Errorf("%w: %v", ErrCorruptDocument, err),
			map[string]any{"collection": collection})
	}
	return doc, nil
}

func (s *Store) trackPlan(plan queryPlan) {
	if plan.complex {
		s.metrics.Increment(MetricPlanComplex)
		return
	}
	s.metrics.Increment(MetricPlanSimple)
}
