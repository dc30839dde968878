package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/petcare/internal/api"
	"github.com/dmitrijs2005/petcare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/logging"
	"github.com/dmitrijs2005/petcare/internal/netx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"

	pathSignUp  = "/api/auth/signup"
	pathSignIn  = "/api/auth/signin"
	pathRefresh = "/api/auth/refresh"
	pathSignOut = "/api/auth/signout"
	pathSession = "/api/auth/session"
)

// HTTPIdentityProvider talks to the backend's auth endpoints and keeps the
// token pair in the local metadata store.
type HTTPIdentityProvider struct {
	api    *netx.Client
	meta   metadata.Repository
	logger logging.Logger

	// refreshMu serialises token rotation; a refresh token is single use.
	refreshMu sync.Mutex

	mu   sync.Mutex
	subs map[int]func(*Identity)
	next int
}

func NewHTTPIdentityProvider(c *netx.Client, meta metadata.Repository, logger logging.Logger) *HTTPIdentityProvider {
	return &HTTPIdentityProvider{
		api:    c,
		meta:   meta,
		logger: logger.With("module", "identity"),
		subs:   make(map[int]func(*Identity)),
	}
}

func (p *HTTPIdentityProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return p.authenticate(ctx, pathSignIn, email, password)
}

func (p *HTTPIdentityProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return p.authenticate(ctx, pathSignUp, email, password)
}

func (p *HTTPIdentityProvider) authenticate(ctx context.Context, path, email, password string) (*Identity, error) {
	var resp api.AuthResponse
	err := p.api.Do(ctx, netx.Request{
		Method: http.MethodPost,
		Path:   path,
		JSON:   api.Credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, mapError(err)
	}

	if err := p.saveTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}

	id := &Identity{UserID: resp.UserID, Email: resp.Email}
	p.notify(id)
	return id, nil
}

// SignOut revokes the refresh token on the backend, best effort, and always
// forgets the local tokens.
func (p *HTTPIdentityProvider) SignOut(ctx context.Context) error {
	refresh, err := p.meta.Get(ctx, keyRefreshToken)
	if err != nil {
		return err
	}

	if len(refresh) > 0 {
		err := p.api.Do(ctx, netx.Request{
			Method: http.MethodPost,
			Path:   pathSignOut,
			JSON:   api.RefreshRequest{RefreshToken: string(refresh)},
		}, nil)
		if err != nil {
			p.logger.Warn(ctx, "remote sign-out failed", "error", err)
		}
	}

	if err := p.meta.Delete(ctx, keyAccessToken, keyRefreshToken); err != nil {
		return err
	}
	p.notify(nil)
	return nil
}

// CurrentSession returns the signed-in identity, or nil when there is none.
// Tokens the backend no longer accepts are discarded.
func (p *HTTPIdentityProvider) CurrentSession(ctx context.Context) (*Identity, error) {
	token, err := p.meta.Get(ctx, keyAccessToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, nil
	}

	var resp api.SessionResponse
	err = p.Authorize(ctx, func(token string) error {
		return p.api.Do(ctx, netx.Request{Method: http.MethodGet, Path: pathSession, Token: token}, &resp)
	})
	switch {
	case err == nil:
		return &Identity{UserID: resp.UserID, Email: resp.Email}, nil
	case errors.Is(err, common.ErrNotAuthenticated):
		return nil, nil
	case sessionEnded(err):
		p.logger.Info(ctx, "stored session rejected", "error", err)
		return nil, p.meta.Delete(ctx, keyAccessToken, keyRefreshToken)
	default:
		return nil, err
	}
}

// OnSessionChange registers fn and calls it with the current session.
// The lookup runs before fn is registered, so a session dropped during the
// lookup is reported once, as the current state.
func (p *HTTPIdentityProvider) OnSessionChange(ctx context.Context, fn func(*Identity)) Subscription {
	cur, err := p.CurrentSession(ctx)
	if err != nil {
		p.logger.Warn(ctx, "session lookup failed", "error", err)
		cur = nil
	}

	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = fn
	p.mu.Unlock()

	fn(cur)

	return subscriptionFunc(func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	})
}

func (p *HTTPIdentityProvider) notify(id *Identity) {
	p.mu.Lock()
	fns := make([]func(*Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

// Authorize runs call with the stored access token. When the backend reports
// the token as expired it is refreshed and call is retried once. A session
// that can no longer be refreshed yields ErrNotAuthenticated.
func (p *HTTPIdentityProvider) Authorize(ctx context.Context, call func(token string) error) error {
	token, err := p.meta.Get(ctx, keyAccessToken)
	if err != nil {
		return err
	}

	err = mapError(call(string(token)))
	if len(token) == 0 || !errors.Is(err, common.ErrTokenExpired) {
		return err
	}

	if err := p.refresh(ctx, string(token)); err != nil {
		return err
	}

	token, err = p.meta.Get(ctx, keyAccessToken)
	if err != nil {
		return err
	}
	return mapError(call(string(token)))
}

// refresh rotates the token pair unless another caller already replaced
// the stale access token.
func (p *HTTPIdentityProvider) refresh(ctx context.Context, stale string) error {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	current, err := p.meta.Get(ctx, keyAccessToken)
	if err != nil {
		return err
	}
	if len(current) > 0 && string(current) != stale {
		return nil
	}

	rt, err := p.meta.Get(ctx, keyRefreshToken)
	if err != nil {
		return err
	}
	if len(rt) == 0 {
		return common.ErrNotAuthenticated
	}

	var pair api.TokenPair
	err = p.api.Do(ctx, netx.Request{
		Method: http.MethodPost,
		Path:   pathRefresh,
		JSON:   api.RefreshRequest{RefreshToken: string(rt)},
	}, &pair)
	if err != nil {
		err = mapError(err)
		if sessionEnded(err) {
			p.logger.Info(ctx, "refresh rejected, session ended", "error", err)
			if derr := p.meta.Delete(ctx, keyAccessToken, keyRefreshToken); derr != nil {
				return derr
			}
			p.notify(nil)
			return common.ErrNotAuthenticated
		}
		return err
	}

	return p.saveTokens(ctx, pair.AccessToken, pair.RefreshToken)
}

func (p *HTTPIdentityProvider) saveTokens(ctx context.Context, access, refresh string) error {
	if err := p.meta.Set(ctx, keyAccessToken, []byte(access)); err != nil {
		return err
	}
	return p.meta.Set(ctx, keyRefreshToken, []byte(refresh))
}
