package docstore

import "github.com/google/uuid"

// NewID generates a UUIDv7 (time-ordered) document identifier.
// Time-ordered ids keep the (collection_name, doc_id) primary key index
// append-friendly and need no coordination between writers.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fall back to UUIDv4 if NewV7 fails (extremely rare)
		id = uuid.New()
	}
	return id.String()
}

// IsValidID checks if a string is a valid UUID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
