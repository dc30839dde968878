package httpapi

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/petcare/internal/api"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/go-chi/chi/v5"
)

// MaxBlobSize bounds a single upload.
const MaxBlobSize = 10 << 20

// blobPath returns the decoded blob path. chi matches on the escaped path
// only when the URL carries a RawPath.
func blobPath(r *http.Request) (string, error) {
	p := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return p, nil
	}
	p, err := url.PathUnescape(p)
	if err != nil {
		return "", common.ErrInvalidInput
	}
	return p, nil
}

// PutBlob handles PUT /api/blobs/*.
func (h *Handler) PutBlob(w http.ResponseWriter, r *http.Request) {
	path, err := blobPath(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBlobSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "blob too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, r, common.ErrInvalidInput)
		return
	}

	u, err := h.blobs.Store(r.Context(), CallerFrom(r.Context()), path, data, r.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.BlobResponse{URL: u})
}

// GetBlob handles GET /api/blobs/*. Blob URLs are public.
func (h *Handler) GetBlob(w http.ResponseWriter, r *http.Request) {
	path, err := blobPath(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	obj, err := h.blobs.Open(r.Context(), path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	_, _ = io.Copy(w, obj.Body)
}
