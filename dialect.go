package docstore

// Dialect adapts the store's generated SQL to a specific database engine.
// Statements are written with ? placeholders and rebound through sqlx, so a
// dialect only has to answer the pieces that genuinely differ: JSON field
// extraction, the upsert statement, and the bootstrap DDL.
type Dialect interface {
	// Name identifies the dialect in logs and errors.
	Name() string

	// JSONField returns a SQL expression extracting the named top-level
	// field from the json_data column as text. The field name is
	// interpolated, so callers must validate it with validIdent first.
	JSONField(field string) string

	// UpsertSQL returns the insert-or-replace statement taking
	// (collection_name, doc_id, org_id, json_data) parameters.
	UpsertSQL() string

	// SchemaSQL returns the DDL creating the documents table and its
	// indexes, safe to run repeatedly.
	SchemaSQL() []string
}

type postgresDialect struct{}

// Postgres returns the dialect for PostgreSQL with a JSONB payload column.
func Postgres() Dialect { return postgresDialect{} }

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) JSONField(field string) string {
	return "json_data->>'" + field + "'"
}

func (postgresDialect) UpsertSQL() string {
	return `INSERT INTO documents (collection_name, doc_id, org_id, json_data, updated_at)
VALUES (?, ?, ?, CAST(? AS JSONB), CURRENT_TIMESTAMP)
ON CONFLICT (collection_name, doc_id) DO UPDATE
SET org_id = EXCLUDED.org_id, json_data = EXCLUDED.json_data, updated_at = CURRENT_TIMESTAMP`
}

func (postgresDialect) SchemaSQL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection_name TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			org_id TEXT,
			json_data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection_name, doc_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_org ON documents (collection_name, org_id)`,
	}
}

type sqliteDialect struct{}

// SQLite returns the dialect for SQLite with a TEXT payload column holding
// JSON. Handy for tests and single-node deployments. json_extract yields
// SQLite's own scalar representation for booleans and numbers, which is why
// the planner only pushes string-literal equalities into SQL.
func SQLite() Dialect { return sqliteDialect{} }

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) JSONField(field string) string {
	return "json_extract(json_data, '$." + field + "')"
}

func (sqliteDialect) UpsertSQL() string {
	return `INSERT INTO documents (collection_name, doc_id, org_id, json_data, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (collection_name, doc_id) DO UPDATE
SET org_id = excluded.org_id, json_data = excluded.json_data, updated_at = CURRENT_TIMESTAMP`
}

func (sqliteDialect) SchemaSQL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection_name TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			org_id TEXT,
			json_data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection_name, doc_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_org ON documents (collection_name, org_id)`,
	}
}

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres(), nil
	case "sqlite3":
		return SQLite(), nil
	default:
		return nil, WithContext(ErrUnknownDriver, map[string]any{"driver": driver})
	}
}

// validIdent reports whether s is safe to interpolate into a JSON path
// expression: ASCII letters, digits and underscores only.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
