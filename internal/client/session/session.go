// Package session decides who the current visitor is and which pages they
// may see. A Session is never stored; it is recomputed from the identity
// provider and the local guest flag every time it is needed.
package session

import (
	"context"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/common"
)

type Kind int

const (
	KindUnauthenticated Kind = iota
	KindGuest
	KindAuthenticated
)

func (k Kind) String() string {
	switch k {
	case KindGuest:
		return "guest"
	case KindAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session is an immutable snapshot of the visitor's access state.
type Session struct {
	kind    Kind
	ownerID string
	email   string
}

func Authenticated(ownerID, email string) Session {
	return Session{kind: KindAuthenticated, ownerID: ownerID, email: email}
}

func Guest() Session { return Session{kind: KindGuest} }

func Unauthenticated() Session { return Session{} }

func (s Session) Kind() Kind { return s.kind }

func (s Session) Email() string { return s.email }

// Owner is the owner id records are written and queried under: the account
// uid, or the shared guest owner. It is false for an unauthenticated visitor.
func (s Session) Owner() (string, bool) {
	switch s.kind {
	case KindAuthenticated:
		return s.ownerID, true
	case KindGuest:
		return common.GuestOwnerID, true
	default:
		return "", false
	}
}

// Allowed reports whether protected pages may be shown.
func (s Session) Allowed() bool {
	return s.kind != KindUnauthenticated
}

func (s Session) String() string {
	if s.kind == KindAuthenticated {
		return s.email
	}
	return s.kind.String()
}

// compose is the single place where the two sources meet. An authenticated
// identity wins over the guest flag.
func compose(id *client.Identity, guest bool) Session {
	switch {
	case id != nil && id.UserID != "":
		return Authenticated(id.UserID, id.Email)
	case guest:
		return Guest()
	default:
		return Unauthenticated()
	}
}

// Resolver computes the current Session on demand.
type Resolver struct {
	identity client.IdentityProvider
	guest    GuestFlag
}

func NewResolver(identity client.IdentityProvider, guest GuestFlag) *Resolver {
	return &Resolver{identity: identity, guest: guest}
}

// Resolve asks the identity provider for its current session and combines
// it with the guest flag.
func (r *Resolver) Resolve(ctx context.Context) (Session, error) {
	id, err := r.identity.CurrentSession(ctx)
	if err != nil {
		return Unauthenticated(), err
	}
	return r.FromIdentity(ctx, id)
}

// FromIdentity combines an identity already delivered by the provider with
// the guest flag.
func (r *Resolver) FromIdentity(ctx context.Context, id *client.Identity) (Session, error) {
	guest, err := r.guest.IsSet(ctx)
	if err != nil {
		return Unauthenticated(), err
	}
	return compose(id, guest), nil
}
