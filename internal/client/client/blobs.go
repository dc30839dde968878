package client

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/petcare/internal/api"
	"github.com/dmitrijs2005/petcare/internal/netx"
)

// HTTPBlobStore uploads attachments to the backend's blob endpoint.
type HTTPBlobStore struct {
	api  *netx.Client
	auth Authorizer
}

func NewHTTPBlobStore(c *netx.Client, auth Authorizer) *HTTPBlobStore {
	return &HTTPBlobStore{api: c, auth: auth}
}

func blobPath(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "/api/blobs/" + strings.Join(segs, "/")
}

// Store uploads data under path and returns the URL it is served from.
func (s *HTTPBlobStore) Store(ctx context.Context, path string, data []byte) (string, error) {
	var resp api.BlobResponse
	err := s.auth.Authorize(ctx, func(token string) error {
		return s.api.Do(ctx, netx.Request{
			Method:      http.MethodPut,
			Path:        blobPath(path),
			Token:       token,
			Body:        bytes.NewReader(data),
			ContentType: http.DetectContentType(data),
		}, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}
