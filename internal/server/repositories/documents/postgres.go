package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/dbx"
	"github.com/dmitrijs2005/petcare/internal/server/models"
)

// PostgresRepository keeps every collection in one documents table with the
// kind-specific fields in a JSONB column.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, doc *models.Document) (*models.Document, error) {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}

	query := `
		INSERT INTO documents (collection, owner_id, fields)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, query, doc.Collection, doc.OwnerID, string(fields)).
		Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

// columnExpr maps a document field to the SQL expression holding it. Owner
// and creation time are real columns; everything else lives in fields.
// The returned args are appended to the query parameters.
func columnExpr(field string, next int) (string, []any) {
	switch field {
	case models.FieldOwnerID:
		return "owner_id", nil
	case models.FieldCreatedAt:
		return "created_at", nil
	default:
		return fmt.Sprintf("fields->>$%d", next), []any{field}
	}
}

func (r *PostgresRepository) Query(ctx context.Context, collection string, filter models.Filter, order models.Order) ([]*models.Document, error) {
	args := []any{collection}

	where, extra := columnExpr(filter.Field, len(args)+1)
	args = append(args, extra...)
	if where == "created_at" {
		where = "created_at::text"
	}
	args = append(args, filter.Value)
	whereSQL := fmt.Sprintf("%s = $%d", where, len(args))

	orderBy, extra := columnExpr(order.Field, len(args)+1)
	args = append(args, extra...)
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, fields, created_at
		FROM documents
		WHERE collection = $1 AND %s
		ORDER BY %s %s, id %s
	`, whereSQL, orderBy, dir, dir)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	result := []*models.Document{}
	for rows.Next() {
		doc := &models.Document{Collection: collection}
		var raw []byte
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &raw, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc.Fields); err != nil {
			return nil, fmt.Errorf("decode fields of %s: %w", doc.ID, err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id, ownerID string) error {
	query := `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2 AND owner_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, collection, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res, common.ErrorNotFound)
}
