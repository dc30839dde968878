package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository maps each record collection onto a Firestore collection
// of the same name. Owner and creation time are stored next to the record
// fields under ownerId and createdAt.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) Insert(ctx context.Context, doc *models.Document) (*models.Document, error) {
	// Same id format as the postgres driver.
	ref := r.client.Collection(doc.Collection).Doc(uuid.NewString())

	if _, err := ref.Create(ctx, toFirestoreData(doc)); err != nil {
		return nil, fmt.Errorf("firestore create: %w", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore read back: %w", err)
	}

	doc.ID = ref.ID
	doc.CreatedAt = snap.CreateTime
	if ts, ok := snap.Data()[models.FieldCreatedAt].(time.Time); ok {
		doc.CreatedAt = ts
	}
	return doc, nil
}

func (r *FirestoreRepository) Query(ctx context.Context, collection string, filter models.Filter, order models.Order) ([]*models.Document, error) {
	dir := firestore.Asc
	if order.Desc {
		dir = firestore.Desc
	}

	snaps, err := r.client.Collection(collection).
		Where(filter.Field, "==", filter.Value).
		OrderBy(order.Field, dir).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore query: %w", err)
	}

	result := make([]*models.Document, 0, len(snaps))
	for _, s := range snaps {
		result = append(result, fromFirestoreData(collection, s.Ref.ID, s.Data()))
	}
	return result, nil
}

func (r *FirestoreRepository) Delete(ctx context.Context, collection, id, ownerID string) error {
	ref := r.client.Collection(collection).Doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return common.ErrorNotFound
			}
			return err
		}
		if owner, _ := snap.Data()[models.FieldOwnerID].(string); owner != ownerID {
			return common.ErrorNotFound
		}
		return tx.Delete(ref)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("firestore delete: %w", err)
	}
	return nil
}

// toFirestoreData flattens doc into the stored map. createdAt is always the
// server timestamp; a client-supplied value is overwritten.
func toFirestoreData(doc *models.Document) map[string]any {
	data := make(map[string]any, len(doc.Fields)+2)
	for k, v := range doc.Fields {
		data[k] = v
	}
	data[models.FieldOwnerID] = doc.OwnerID
	data[models.FieldCreatedAt] = firestore.ServerTimestamp
	return data
}

func fromFirestoreData(collection, id string, data map[string]any) *models.Document {
	doc := &models.Document{
		ID:         id,
		Collection: collection,
		Fields:     make(map[string]any, len(data)),
	}
	for k, v := range data {
		switch k {
		case models.FieldOwnerID:
			doc.OwnerID, _ = v.(string)
		case models.FieldCreatedAt:
			doc.CreatedAt, _ = v.(time.Time)
		default:
			doc.Fields[k] = v
		}
	}
	return doc
}
