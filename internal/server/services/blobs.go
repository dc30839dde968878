package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/server/blob"
)

// BlobRoute is the HTTP path prefix under which blobs are served.
const BlobRoute = "/api/blobs/"

// BlobService stores uploaded attachments and hands back a URL from which
// they can be fetched. Keys look like <area>/<owner>/<name>.
type BlobService struct {
	store   blob.Store
	baseURL string
}

func NewBlobService(store blob.Store, publicBaseURL string) *BlobService {
	return &BlobService{store: store, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Store writes data under path on behalf of caller and returns its URL.
func (s *BlobService) Store(ctx context.Context, caller *Identity, path string, data []byte, contentType string) (string, error) {
	owner, err := blobOwner(path)
	if err != nil {
		return "", err
	}
	if !canActAs(caller, owner) {
		return "", common.ErrorUnauthorized
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty upload", common.ErrInvalidInput)
	}
	if err := s.store.Put(ctx, path, data, contentType); err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return s.URL(path), nil
}

// Open returns the blob stored under path.
func (s *BlobService) Open(ctx context.Context, path string) (*blob.Object, error) {
	if _, err := blobOwner(path); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, path)
}

// URL is the public address of path.
func (s *BlobService) URL(path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return s.baseURL + BlobRoute + strings.Join(segs, "/")
}

// blobOwner validates path and returns its owner segment.
func blobOwner(path string) (string, error) {
	segs := strings.Split(path, "/")
	if len(segs) < 3 {
		return "", fmt.Errorf("%w: blob path must be <area>/<owner>/<name>", common.ErrInvalidInput)
	}
	for _, seg := range segs {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: bad blob path %q", common.ErrInvalidInput, path)
		}
	}
	return segs[1], nil
}
