package models

import "time"

// Document is one record in a named collection. Fields holds the
// kind-specific key/value pairs; OwnerID and CreatedAt are kept apart
// so that stores can filter and order on them.
type Document struct {
	ID         string
	Collection string
	OwnerID    string
	Fields     map[string]any
	CreatedAt  time.Time
}

// Filter is an equality predicate on one field.
type Filter struct {
	Field string
	Value string
}

// Order sorts results by one field.
type Order struct {
	Field string
	Desc  bool
}

// Reserved field names understood by every document store.
const (
	FieldOwnerID   = "ownerId"
	FieldCreatedAt = "createdAt"
)
