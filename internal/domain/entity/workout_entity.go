package entity

import "time"

// Workout is an immutable per-user record. Payload is whatever document the
// client submitted; the server only adds the id and creation timestamp.
type Workout struct {
	ID         string
	OwnerEmail string
	Payload    map[string]any
	CreatedAt  time.Time
}

// Document returns the wire shape of the record: the stored payload with the
// server-assigned fields merged in. The internal identifier column is only
// ever exposed as the plain string "id".
func (w *Workout) Document() map[string]any {
	doc := make(map[string]any, len(w.Payload)+2)
	for k, v := range w.Payload {
		doc[k] = v
	}
	doc["id"] = w.ID
	doc["createdAt"] = w.CreatedAt.UTC().Format(time.RFC3339)
	return doc
}
