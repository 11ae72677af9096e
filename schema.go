package docstore

import "context"

// EnsureSchema creates the documents table and its indexes if they do not
// exist. Safe to run on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.SchemaSQL() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return storageError(err, map[string]any{"dialect": s.dialect.Name()})
		}
	}
	return nil
}
