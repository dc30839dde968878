package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/petcare/internal/logging"
	"github.com/dmitrijs2005/petcare/internal/server/blob"
	"github.com/dmitrijs2005/petcare/internal/server/models"
	"github.com/dmitrijs2005/petcare/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

var errBoom = errors.New("boom")

type fakeIdentity struct {
	IdentityService

	signUpRes  *services.AuthResult
	signUpErr  error
	signInRes  *services.AuthResult
	signInErr  error
	refreshRes *services.TokenPair
	refreshErr error
	signOutErr error
	// sessions maps access tokens to identities; a token missing from the
	// map yields sessionErr.
	sessions   map[string]*services.Identity
	sessionErr error

	gotEmail, gotPassword, gotRefresh string
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) (*services.AuthResult, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.signUpRes, f.signUpErr
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*services.AuthResult, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.signInRes, f.signInErr
}

func (f *fakeIdentity) RefreshToken(_ context.Context, refreshToken string) (*services.TokenPair, error) {
	f.gotRefresh = refreshToken
	return f.refreshRes, f.refreshErr
}

func (f *fakeIdentity) SignOut(_ context.Context, refreshToken string) error {
	f.gotRefresh = refreshToken
	return f.signOutErr
}

func (f *fakeIdentity) Session(_ context.Context, accessToken string) (*services.Identity, error) {
	if id, ok := f.sessions[accessToken]; ok {
		return id, nil
	}
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return nil, errBoom
}

type insertCall struct {
	caller     *services.Identity
	collection string
	ownerID    string
	fields     map[string]any
}

type fakeDocuments struct {
	DocumentService

	inserted  *insertCall
	insertRes *models.Document
	insertErr error

	queryCaller     *services.Identity
	queryCollection string
	queryFilter     models.Filter
	queryOrder      models.Order
	queryRes        []*models.Document
	queryErr        error

	deleted   []string
	deleteErr error
}

func (f *fakeDocuments) Insert(_ context.Context, caller *services.Identity, collection, ownerID string, fields map[string]any) (*models.Document, error) {
	f.inserted = &insertCall{caller: caller, collection: collection, ownerID: ownerID, fields: fields}
	return f.insertRes, f.insertErr
}

func (f *fakeDocuments) Query(_ context.Context, caller *services.Identity, collection string, filter models.Filter, order models.Order) ([]*models.Document, error) {
	f.queryCaller, f.queryCollection, f.queryFilter, f.queryOrder = caller, collection, filter, order
	return f.queryRes, f.queryErr
}

func (f *fakeDocuments) Delete(_ context.Context, _ *services.Identity, collection, id, ownerID string) error {
	f.deleted = append(f.deleted, collection, id, ownerID)
	return f.deleteErr
}

type fakeBlobs struct {
	BlobService

	storedPath string
	storedData []byte
	storedType string
	storeURL   string
	storeErr   error

	openObj *blob.Object
	openErr error
}

func (f *fakeBlobs) Store(_ context.Context, _ *services.Identity, path string, data []byte, contentType string) (string, error) {
	f.storedPath, f.storedData, f.storedType = path, data, contentType
	return f.storeURL, f.storeErr
}

func (f *fakeBlobs) Open(_ context.Context, path string) (*blob.Object, error) {
	f.storedPath = path
	return f.openObj, f.openErr
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type testServer struct {
	identity  *fakeIdentity
	documents *fakeDocuments
	blobs     *fakeBlobs
	registry  *prometheus.Registry
	router    http.Handler
}

func newTestServer() *testServer {
	ts := &testServer{
		identity:  &fakeIdentity{sessions: map[string]*services.Identity{}},
		documents: &fakeDocuments{},
		blobs:     &fakeBlobs{},
		registry:  prometheus.NewRegistry(),
	}
	h := NewHandler(ts.identity, ts.documents, ts.blobs, discardLogger())
	ts.router = NewRouter(h, ts.registry)
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}
