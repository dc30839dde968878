package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/server/models"
	"github.com/dmitrijs2005/petcare/internal/server/repositories/documents"
)

var (
	collectionNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)
	fieldNameRe      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)
)

// reservedFields are set by the store and ignored when supplied by a client.
var reservedFields = []string{"id", models.FieldOwnerID, models.FieldCreatedAt}

// canActAs reports whether caller may read or write records of owner.
// Everyone may use the shared guest owner; an authenticated caller may
// also use its own uid. A nil caller is anonymous.
func canActAs(caller *Identity, owner string) bool {
	if owner == common.GuestOwnerID {
		return true
	}
	return caller != nil && caller.UserID != "" && caller.UserID == owner
}

// DocumentService is the record store: insert, owner-scoped query and
// owner-scoped delete over named collections.
type DocumentService struct {
	repo documents.Repository
}

func NewDocumentService(repo documents.Repository) *DocumentService {
	return &DocumentService{repo: repo}
}

// Insert stores fields in collection on behalf of ownerID. The store assigns
// the id and createdAt.
func (s *DocumentService) Insert(ctx context.Context, caller *Identity, collection, ownerID string, fields map[string]any) (*models.Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerId is required", common.ErrInvalidInput)
	}
	if !canActAs(caller, ownerID) {
		return nil, common.ErrorUnauthorized
	}

	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		clean[k] = v
	}
	for _, k := range reservedFields {
		delete(clean, k)
	}

	doc, err := s.repo.Insert(ctx, &models.Document{Collection: collection, OwnerID: ownerID, Fields: clean})
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return doc, nil
}

// Query lists one owner's documents. The filter must target ownerId; the
// order defaults to createdAt descending.
func (s *DocumentService) Query(ctx context.Context, caller *Identity, collection string, filter models.Filter, order models.Order) ([]*models.Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	if filter.Field != models.FieldOwnerID {
		return nil, fmt.Errorf("%w: queries must filter on %s", common.ErrInvalidInput, models.FieldOwnerID)
	}
	if filter.Value == "" {
		return nil, fmt.Errorf("%w: owner value is required", common.ErrInvalidInput)
	}
	if order.Field == "" {
		order = models.Order{Field: models.FieldCreatedAt, Desc: true}
	}
	if !fieldNameRe.MatchString(order.Field) {
		return nil, fmt.Errorf("%w: bad order field %q", common.ErrInvalidInput, order.Field)
	}
	if !canActAs(caller, filter.Value) {
		return nil, common.ErrorUnauthorized
	}

	docs, err := s.repo.Query(ctx, collection, filter, order)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return docs, nil
}

// Delete removes id from collection when it belongs to ownerID. A missing or
// foreign document yields common.ErrorNotFound.
func (s *DocumentService) Delete(ctx context.Context, caller *Identity, collection, id, ownerID string) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	if id == "" || ownerID == "" {
		return fmt.Errorf("%w: id and owner are required", common.ErrInvalidInput)
	}
	if !canActAs(caller, ownerID) {
		return common.ErrorUnauthorized
	}
	if err := s.repo.Delete(ctx, collection, id, ownerID); err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	return nil
}

func validateCollection(name string) error {
	if !collectionNameRe.MatchString(name) {
		return fmt.Errorf("%w: bad collection name %q", common.ErrInvalidInput, name)
	}
	return nil
}
