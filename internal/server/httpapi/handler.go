// Package httpapi exposes the identity provider, record store and blob store
// over HTTP/JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/petcare/internal/api"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/logging"
	"github.com/dmitrijs2005/petcare/internal/server/blob"
	"github.com/dmitrijs2005/petcare/internal/server/models"
	"github.com/dmitrijs2005/petcare/internal/server/services"
)

type IdentityService interface {
	SignUp(ctx context.Context, email, password string) (*services.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*services.AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	Session(ctx context.Context, accessToken string) (*services.Identity, error)
}

type DocumentService interface {
	Insert(ctx context.Context, caller *services.Identity, collection, ownerID string, fields map[string]any) (*models.Document, error)
	Query(ctx context.Context, caller *services.Identity, collection string, filter models.Filter, order models.Order) ([]*models.Document, error)
	Delete(ctx context.Context, caller *services.Identity, collection, id, ownerID string) error
}

type BlobService interface {
	Store(ctx context.Context, caller *services.Identity, path string, data []byte, contentType string) (string, error)
	Open(ctx context.Context, path string) (*blob.Object, error)
}

// Handler serves every API route.
type Handler struct {
	identity  IdentityService
	documents DocumentService
	blobs     BlobService
	logger    logging.Logger
}

func NewHandler(identity IdentityService, documents DocumentService, blobs BlobService, logger logging.Logger) *Handler {
	return &Handler{identity: identity, documents: documents, blobs: blobs, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto a status code and a short plain-text
// body. Internal details are logged, never returned.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, common.ErrTokenExpired):
		http.Error(w, api.BodyTokenExpired, http.StatusUnauthorized)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		http.Error(w, api.BodyRefreshTokenExpired, http.StatusUnauthorized)
	case errors.Is(err, common.ErrInvalidToken):
		http.Error(w, common.ErrInvalidToken.Error(), http.StatusUnauthorized)
	case errors.Is(err, common.ErrInvalidCredentials):
		http.Error(w, common.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
	case errors.Is(err, common.ErrorUnauthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, common.ErrorNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrEmailInUse):
		http.Error(w, common.ErrEmailInUse.Error(), http.StatusConflict)
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return common.ErrInvalidInput
	}
	return nil
}
