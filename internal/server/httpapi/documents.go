package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/petcare/internal/api"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func toAPIDocument(d *models.Document) api.Document {
	fields := d.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return api.Document{ID: d.ID, OwnerID: d.OwnerID, CreatedAt: d.CreatedAt, Fields: fields}
}

// InsertDocument handles POST /api/collections/{collection}/documents.
func (h *Handler) InsertDocument(w http.ResponseWriter, r *http.Request) {
	var req api.InsertDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	doc, err := h.documents.Insert(r.Context(), CallerFrom(r.Context()), chi.URLParam(r, "collection"), req.OwnerID, req.Fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAPIDocument(doc))
}

// QueryDocuments handles GET /api/collections/{collection}/documents.
func (h *Handler) QueryDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	desc := false
	if v := q.Get(api.ParamDesc); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, r, common.ErrInvalidInput)
			return
		}
		desc = b
	}

	docs, err := h.documents.Query(r.Context(), CallerFrom(r.Context()), chi.URLParam(r, "collection"),
		models.Filter{Field: q.Get(api.ParamField), Value: q.Get(api.ParamValue)},
		models.Order{Field: q.Get(api.ParamOrderBy), Desc: desc})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]api.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, toAPIDocument(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteDocument handles DELETE /api/collections/{collection}/documents/{id}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := h.documents.Delete(r.Context(), CallerFrom(r.Context()),
		chi.URLParam(r, "collection"), chi.URLParam(r, "id"), r.URL.Query().Get(api.ParamOwnerID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
