// Package api holds the JSON bodies exchanged between the petcare backend
// and its front-ends.
package api

import "time"

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type InsertDocumentRequest struct {
	OwnerID string         `json:"owner_id"`
	Fields  map[string]any `json:"fields"`
}

// Document is a stored record as seen by clients.
type Document struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	Fields    map[string]any `json:"fields"`
}

type BlobResponse struct {
	URL string `json:"url"`
}

// Query parameter names of the document listing and delete endpoints.
const (
	ParamField   = "field"
	ParamValue   = "value"
	ParamOrderBy = "order_by"
	ParamDesc    = "desc"
	ParamOwnerID = "owner_id"
)

// Response bodies that carry meaning for token handling.
const (
	BodyTokenExpired        = "token expired"
	BodyRefreshTokenExpired = "refresh token expired"
)
