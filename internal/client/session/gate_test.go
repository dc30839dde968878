package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(idp *fakeIdentity, guest *memGuest) (*Gate, *recordingNav) {
	nav := &recordingNav{}
	return NewGate(idp, guest, nav, discardLogger()), nav
}

func TestResolveAccess_Matrix(t *testing.T) {
	authed := &client.Identity{UserID: "u1", Email: "a@b.c"}

	tests := []struct {
		identity *client.Identity
		guest    bool
		page     Page
		want     Decision
		navTo    []Page
	}{
		{nil, false, PageDashboard, DenyWithRedirect, []Page{EntryPage}},
		{nil, false, PageVaccine, DenyWithRedirect, []Page{EntryPage}},
		{nil, false, PageIndex, DenySilently, nil},
		{nil, true, PagePhotos, Allow, nil},
		{nil, true, PageIndex, Allow, nil},
		{authed, false, PageExpenses, Allow, nil},
		{authed, true, PageCare, Allow, nil},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("id=%v guest=%v page=%s", tt.identity != nil, tt.guest, tt.page)
		t.Run(name, func(t *testing.T) {
			idp := &fakeIdentity{current: tt.identity}
			g, nav := newTestGate(idp, &memGuest{set: tt.guest})

			d, _, err := g.ResolveAccess(context.Background(), tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.navTo, nav.pages)
			assert.Equal(t, 0, idp.subs, "subscription must be released")
		})
	}
}

func TestResolveAccess_WaitsForAsyncCallback(t *testing.T) {
	idp := &fakeIdentity{current: &client.Identity{UserID: "u7"}, async: true}
	g, _ := newTestGate(idp, &memGuest{})

	d, s, err := g.ResolveAccess(context.Background(), PageDiet)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
	owner, ok := s.Owner()
	assert.True(t, ok)
	assert.Equal(t, "u7", owner)
}

func TestResolveAccess_ContextCancelled(t *testing.T) {
	idp := &fakeIdentity{silent: true}
	g, nav := newTestGate(idp, &memGuest{set: true})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d, _, err := g.ResolveAccess(ctx, PageDashboard)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, DenySilently, d)
	assert.Empty(t, nav.pages)
}

func TestResolveAccess_GuestFlagErrorDenies(t *testing.T) {
	g, nav := newTestGate(&fakeIdentity{}, &memGuest{set: true, err: errBoom})

	d, _, err := g.ResolveAccess(context.Background(), PageDashboard)
	require.NoError(t, err)
	assert.Equal(t, DenyWithRedirect, d)
	assert.Equal(t, []Page{EntryPage}, nav.pages)
}

func TestLogout(t *testing.T) {
	idp := &fakeIdentity{current: &client.Identity{UserID: "u1"}}
	guest := &memGuest{set: true}
	g, nav := newTestGate(idp, guest)

	require.NoError(t, g.Logout(context.Background()))
	assert.False(t, guest.set)
	assert.Equal(t, 1, idp.signOuts)
	assert.Nil(t, idp.current)
	assert.Equal(t, []Page{EntryPage}, nav.pages)

	d, _, err := g.ResolveAccess(context.Background(), PageDashboard)
	require.NoError(t, err)
	assert.Equal(t, DenyWithRedirect, d)
}

func TestContinueAsGuest(t *testing.T) {
	guest := &memGuest{}
	g, nav := newTestGate(&fakeIdentity{}, guest)

	s, err := g.ContinueAsGuest(context.Background())
	require.NoError(t, err)
	assert.True(t, guest.set)
	assert.Equal(t, KindGuest, s.Kind())
	assert.Equal(t, []Page{PageDashboard}, nav.pages)
}

func TestSignIn_ClearsGuestFlag(t *testing.T) {
	guest := &memGuest{set: true}
	g, nav := newTestGate(&fakeIdentity{}, guest)

	s, err := g.SignIn(context.Background(), "a@b.c", "secret1")
	require.NoError(t, err)
	assert.Equal(t, KindAuthenticated, s.Kind())
	assert.False(t, guest.set)
	assert.Equal(t, []Page{PageDashboard}, nav.pages)
}

func TestSignIn_FailureKeepsStateAndPage(t *testing.T) {
	guest := &memGuest{set: true}
	g, nav := newTestGate(&fakeIdentity{signInErr: common.ErrInvalidCredentials}, guest)

	_, err := g.SignIn(context.Background(), "a@b.c", "nope")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.True(t, guest.set)
	assert.Empty(t, nav.pages)
}

func TestSignUp_EmailInUseIsDistinct(t *testing.T) {
	g, _ := newTestGate(&fakeIdentity{signInErr: common.ErrEmailInUse}, &memGuest{})

	_, err := g.SignUp(context.Background(), "a@b.c", "secret1")
	assert.ErrorIs(t, err, common.ErrEmailInUse)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}
