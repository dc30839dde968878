package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/petcare/internal/api"
	"github.com/dmitrijs2005/petcare/internal/netx"
)

// HTTPRecordStore is the RecordStore served by the backend's collection
// endpoints.
type HTTPRecordStore struct {
	api  *netx.Client
	auth Authorizer
}

func NewHTTPRecordStore(c *netx.Client, auth Authorizer) *HTTPRecordStore {
	return &HTTPRecordStore{api: c, auth: auth}
}

func collectionPath(collection string) string {
	return "/api/collections/" + url.PathEscape(collection) + "/documents"
}

func (s *HTTPRecordStore) Insert(ctx context.Context, collection, ownerID string, fields map[string]any) (string, error) {
	var doc api.Document
	err := s.auth.Authorize(ctx, func(token string) error {
		return s.api.Do(ctx, netx.Request{
			Method: http.MethodPost,
			Path:   collectionPath(collection),
			Token:  token,
			JSON:   api.InsertDocumentRequest{OwnerID: ownerID, Fields: fields},
		}, &doc)
	})
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (s *HTTPRecordStore) Query(ctx context.Context, collection string, filter Filter, order Order) ([]Record, error) {
	q := url.Values{}
	q.Set(api.ParamField, filter.Field)
	q.Set(api.ParamValue, filter.Value)
	if order.Field != "" {
		q.Set(api.ParamOrderBy, order.Field)
		q.Set(api.ParamDesc, strconv.FormatBool(order.Desc))
	}

	var docs []api.Document
	err := s.auth.Authorize(ctx, func(token string) error {
		return s.api.Do(ctx, netx.Request{
			Method: http.MethodGet,
			Path:   collectionPath(collection),
			Query:  q,
			Token:  token,
		}, &docs)
	})
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, Record{ID: d.ID, OwnerID: d.OwnerID, CreatedAt: d.CreatedAt, Fields: d.Fields})
	}
	return out, nil
}

func (s *HTTPRecordStore) DeleteByID(ctx context.Context, collection, id, ownerID string) error {
	return s.auth.Authorize(ctx, func(token string) error {
		return s.api.Do(ctx, netx.Request{
			Method: http.MethodDelete,
			Path:   collectionPath(collection) + "/" + url.PathEscape(id),
			Query:  url.Values{api.ParamOwnerID: {ownerID}},
			Token:  token,
		}, nil)
	})
}
