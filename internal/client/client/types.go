package client

import (
	"context"
	"time"
)

// Identity is an authenticated account.
type Identity struct {
	UserID string
	Email  string
}

// Subscription ends a session-change registration.
type Subscription interface {
	Unsubscribe()
}

type subscriptionFunc func()

func (f subscriptionFunc) Unsubscribe() { f() }

// IdentityProvider signs accounts in and out and reports session changes.
// A nil *Identity means there is no authenticated session.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*Identity, error)
	// OnSessionChange calls fn once with the current session before
	// returning, and again after every sign-in or sign-out.
	OnSessionChange(ctx context.Context, fn func(*Identity)) Subscription
}

// Fields every stored record carries besides its own payload.
const (
	FieldOwnerID   = "ownerId"
	FieldCreatedAt = "createdAt"
)

// Record is one stored document.
type Record struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time
	Fields    map[string]any
}

type Filter struct {
	Field string
	Value string
}

type Order struct {
	Field string
	Desc  bool
}

// RecordStore keeps named collections of records.
type RecordStore interface {
	Insert(ctx context.Context, collection, ownerID string, fields map[string]any) (string, error)
	Query(ctx context.Context, collection string, filter Filter, order Order) ([]Record, error)
	// DeleteByID removes the record only if it belongs to ownerID.
	DeleteByID(ctx context.Context, collection, id, ownerID string) error
}

// BlobStore keeps uploaded bytes and hands back a URL they can be fetched from.
type BlobStore interface {
	Store(ctx context.Context, path string, data []byte) (string, error)
}

// Authorizer runs call with the current access token, which is empty for an
// anonymous visitor.
type Authorizer interface {
	Authorize(ctx context.Context, call func(token string) error) error
}
