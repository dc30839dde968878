package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/logging"
)

var errBoom = errors.New("boom")

type fakeIdentity struct {
	mu      sync.Mutex
	current *client.Identity
	// async delivers the subscription callback from another goroutine.
	async bool
	// silent never fires the callback.
	silent    bool
	signInErr error
	signOuts  int
	subs      int
}

func (f *fakeIdentity) SignIn(_ context.Context, email, _ string) (*client.Identity, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = &client.Identity{UserID: "u1", Email: email}
	return f.current, nil
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*client.Identity, error) {
	return f.SignIn(ctx, email, password)
}

func (f *fakeIdentity) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.current = nil
	return nil
}

func (f *fakeIdentity) CurrentSession(context.Context) (*client.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeIdentity) OnSessionChange(ctx context.Context, fn func(*client.Identity)) client.Subscription {
	f.mu.Lock()
	f.subs++
	cur := f.current
	f.mu.Unlock()

	switch {
	case f.silent:
	case f.async:
		go fn(cur)
	default:
		fn(cur)
	}
	return unsub(func() {
		f.mu.Lock()
		f.subs--
		f.mu.Unlock()
	})
}

type unsub func()

func (u unsub) Unsubscribe() { u() }

type memGuest struct {
	set bool
	err error
}

func (g *memGuest) IsSet(context.Context) (bool, error) { return g.set, g.err }
func (g *memGuest) Set(context.Context) error           { g.set = true; return nil }
func (g *memGuest) Clear(context.Context) error         { g.set = false; return nil }

type recordingNav struct {
	pages []Page
}

func (n *recordingNav) Navigate(_ context.Context, p Page) { n.pages = append(n.pages, p) }

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

