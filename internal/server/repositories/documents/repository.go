// Package documents stores record documents: schemaless key/value maps kept
// in named collections, each carrying an owner and a server-assigned
// creation time.
package documents

import (
	"context"

	"github.com/dmitrijs2005/petcare/internal/server/models"
)

type Repository interface {
	// Insert stores doc and fills its ID and CreatedAt from the store's clock.
	Insert(ctx context.Context, doc *models.Document) (*models.Document, error)

	// Query returns the documents of collection matching filter, sorted by order.
	// Documents lacking the order field sort as if it were empty.
	Query(ctx context.Context, collection string, filter models.Filter, order models.Order) ([]*models.Document, error)

	// Delete removes the document with id when it belongs to ownerID.
	// A missing document or one owned by someone else yields common.ErrorNotFound.
	Delete(ctx context.Context, collection, id, ownerID string) error
}
