package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/petcare/internal/client/session"
	"github.com/dmitrijs2005/petcare/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// credentials prompts for an email and a password. Without a terminal the
// password is read as a plain line.
func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	if !a.interactive {
		pw, err := getSimpleText(a.reader, "Enter password", a.out)
		return email, []byte(pw), err
	}
	pw, err := getPassword(a.out)
	return email, pw, err
}

type authFunc func(ctx context.Context, email, password string) (session.Session, error)

func (a *App) authenticate(ctx context.Context, fn authFunc) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := fn(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.session = s
	a.screen.Println(fmt.Sprintf("Signed in as %s", s))
	return a.initPage(ctx)
}

// Register creates an account and opens the dashboard.
func (a *App) Register(ctx context.Context) error {
	return a.authenticate(ctx, a.gate.SignUp)
}

// Login authenticates and opens the dashboard.
func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, a.gate.SignIn)
}

// Guest continues without an account. Records are kept under the shared
// guest owner.
func (a *App) Guest(ctx context.Context) error {
	s, err := a.gate.ContinueAsGuest(ctx)
	if err != nil {
		return err
	}
	a.session = s
	a.screen.Println("Continuing as guest. Records are shared by every guest on this server.")
	return a.initPage(ctx)
}

// Logout ends the session and returns to the entry page.
func (a *App) Logout(ctx context.Context) error {
	err := a.gate.Logout(ctx)
	a.session = session.Unauthenticated()
	for _, f := range a.forms {
		f.Reset()
	}
	if err != nil {
		return err
	}
	a.screen.Println("Logged out.")
	return nil
}
