package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/logging"
)

// Decision is the outcome of an access check.
type Decision int

const (
	Allow Decision = iota
	// DenyWithRedirect sends the visitor to the entry page.
	DenyWithRedirect
	// DenySilently keeps the visitor where they are.
	DenySilently
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyWithRedirect:
		return "deny-redirect"
	default:
		return "deny-silent"
	}
}

// decide applies one page-sensitive policy to every page.
func decide(s Session, p Page) Decision {
	switch {
	case s.Allowed():
		return Allow
	case p.Protected():
		return DenyWithRedirect
	default:
		return DenySilently
	}
}

// Gate guards pages and owns the sign-in, sign-up, guest and logout actions.
type Gate struct {
	identity client.IdentityProvider
	resolver *Resolver
	guest    GuestFlag
	nav      Navigator
	logger   logging.Logger
}

func NewGate(identity client.IdentityProvider, guest GuestFlag, nav Navigator, logger logging.Logger) *Gate {
	return &Gate{
		identity: identity,
		resolver: NewResolver(identity, guest),
		guest:    guest,
		nav:      nav,
		logger:   logger.With("module", "gate"),
	}
}

// Resolver returns the resolver the gate decides with.
func (g *Gate) Resolver() *Resolver { return g.resolver }

type firstSession struct {
	session Session
	err     error
}

// ResolveAccess decides whether page may be shown. The decision is taken on
// the first session-change callback, and the Session is computed inside it,
// so the provider state and the guest flag are observed together.
// DenyWithRedirect has already navigated to the entry page when returned.
func (g *Gate) ResolveAccess(ctx context.Context, page Page) (Decision, Session, error) {
	first := make(chan firstSession, 1)

	sub := g.identity.OnSessionChange(ctx, func(id *client.Identity) {
		s, err := g.resolver.FromIdentity(ctx, id)
		select {
		case first <- firstSession{session: s, err: err}:
		default:
		}
	})
	defer sub.Unsubscribe()

	var res firstSession
	select {
	case res = <-first:
	case <-ctx.Done():
		return DenySilently, Unauthenticated(), ctx.Err()
	}
	if res.err != nil {
		g.logger.Warn(ctx, "guest flag unreadable", "error", res.err)
	}

	d := decide(res.session, page)
	g.logger.Debug(ctx, "access resolved", "page", string(page), "session", res.session.Kind().String(), "decision", d.String())

	if d == DenyWithRedirect {
		g.nav.Navigate(ctx, EntryPage)
	}
	return d, res.session, nil
}

// Logout clears the guest flag, ends the identity session and returns to
// the entry page. Navigation happens even when a step fails.
func (g *Gate) Logout(ctx context.Context) error {
	var errs []error
	if err := g.guest.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear guest flag: %w", err))
	}
	if err := g.identity.SignOut(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sign out: %w", err))
	}
	g.nav.Navigate(ctx, EntryPage)
	return errors.Join(errs...)
}

// ContinueAsGuest sets the guest flag and opens the dashboard.
func (g *Gate) ContinueAsGuest(ctx context.Context) (Session, error) {
	if err := g.guest.Set(ctx); err != nil {
		return Unauthenticated(), err
	}
	g.nav.Navigate(ctx, PageDashboard)
	return g.resolver.Resolve(ctx)
}

// SignIn authenticates, drops guest mode and opens the dashboard.
func (g *Gate) SignIn(ctx context.Context, email, password string) (Session, error) {
	return g.authenticate(ctx, g.identity.SignIn, email, password)
}

// SignUp creates an account, drops guest mode and opens the dashboard.
func (g *Gate) SignUp(ctx context.Context, email, password string) (Session, error) {
	return g.authenticate(ctx, g.identity.SignUp, email, password)
}

func (g *Gate) authenticate(ctx context.Context, fn func(context.Context, string, string) (*client.Identity, error), email, password string) (Session, error) {
	id, err := fn(ctx, email, password)
	if err != nil {
		return Unauthenticated(), err
	}
	if err := g.guest.Clear(ctx); err != nil {
		g.logger.Warn(ctx, "failed to clear guest flag", "error", err)
	}
	g.nav.Navigate(ctx, PageDashboard)
	return Authenticated(id.UserID, id.Email), nil
}
