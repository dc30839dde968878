package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/petcare/internal/client/records"
	"github.com/dmitrijs2005/petcare/internal/client/session"
	"github.com/dmitrijs2005/petcare/internal/common"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Help prints the commands available on the open page.
func (a *App) Help() {
	page := a.screen.Page()
	lines := []string{"Available commands: help, open <page>, exit"}
	if a.session.Allowed() {
		lines = append(lines, "Account: logout")
	} else {
		lines = append(lines, "Account: register, login, guest")
	}
	if _, ok := a.controllers[page]; ok {
		lines = append(lines, fmt.Sprintf("On %s: add, (l)ist, delete <id>", page))
	}
	lines = append(lines, "Pages: "+pageList())
	for _, l := range lines {
		a.screen.Println(l)
	}
}

func pageList() string {
	names := make([]string, 0, len(session.Pages()))
	for _, p := range session.Pages() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// Open passes the gate for page and shows it.
func (a *App) Open(ctx context.Context, name string) error {
	page, ok := session.ParsePage(strings.ToLower(name))
	if !ok {
		a.screen.Println(fmt.Sprintf("Unknown page %q. Pages: %s", name, pageList()))
		return nil
	}

	d, s, err := a.gate.ResolveAccess(ctx, page)
	if err != nil {
		return err
	}
	a.session = s

	switch d {
	case session.DenyWithRedirect:
		a.screen.Println(fmt.Sprintf("Sign in or continue as guest to open %s.", page))
		return nil
	case session.DenySilently, session.Allow:
		a.screen.Navigate(ctx, page)
	}
	return a.initPage(ctx)
}

// initPage shows the open page; records pages list right away.
func (a *App) initPage(ctx context.Context) error {
	page := a.screen.Page()
	if ctrl, ok := a.controllers[page]; ok {
		return a.guard(ctx, ctrl.ListAndRender(ctx))
	}

	switch page {
	case session.PageIndex:
		if a.session.Allowed() {
			a.screen.Println("Open the dashboard to continue: open dashboard")
		} else {
			a.screen.Println("Please register, login or continue as guest.")
		}
	case session.PageDashboard:
		a.screen.Println("Dashboard. Pages: vaccine, care (vets), diet, expenses, photos")
	}
	return nil
}

func (a *App) controller() (*records.Controller, *records.Form, bool) {
	page := a.screen.Page()
	ctrl, ok := a.controllers[page]
	if !ok {
		a.screen.Println("Open a records page first: vaccine, care, diet, expenses or photos.")
		return nil, nil, false
	}
	return ctrl, a.forms[page], true
}

// Add fills the page form field by field and creates a record. An empty
// answer keeps the value already in the form.
func (a *App) Add(ctx context.Context) error {
	ctrl, form, ok := a.controller()
	if !ok {
		return nil
	}
	if err := a.fillForm(ctrl.Kind(), form); err != nil {
		return err
	}
	if err := ctrl.Create(ctx, form); err != nil {
		return a.guard(ctx, err)
	}
	a.screen.Println("Saved.")
	return nil
}

func (a *App) fillForm(kind records.Kind, form *records.Form) error {
	for _, f := range kind.Fields {
		prompt := f.Label
		if f.Required {
			prompt += " (required)"
		}
		if f.Type == records.FieldDate {
			prompt += " [YYYY-MM-DD]"
		}

		if f.Type == records.FieldAttachment {
			if form.Attachment != nil {
				prompt += fmt.Sprintf(" file path, current: %s", form.Attachment.Name)
			} else {
				prompt += " file path"
			}
			p, err := getSimpleText(a.reader, prompt, a.out)
			if err != nil {
				return err
			}
			if p == "" {
				continue
			}
			data, err := readFile(p)
			if err != nil {
				return fmt.Errorf("%w: cannot read %s", common.ErrInvalidInput, p)
			}
			form.Attachment = &records.Attachment{Name: p, Data: data}
			continue
		}

		if cur := form.Get(f.Name); cur != "" {
			prompt += fmt.Sprintf(", current: %s", cur)
		}
		read := getSimpleText
		if f.Multiline {
			read = getMultiline
		}
		v, err := read(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			form.Set(f.Name, v)
		}
	}
	return nil
}

// List shows the records of the open page again.
func (a *App) List(ctx context.Context) error {
	ctrl, _, ok := a.controller()
	if !ok {
		return nil
	}
	return a.guard(ctx, ctrl.ListAndRender(ctx))
}

// Delete removes record id from the open page after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	ctrl, _, ok := a.controller()
	if !ok {
		return nil
	}
	return a.guard(ctx, ctrl.Delete(ctx, id))
}

// Confirm asks a yes/no question; anything but yes declines.
func (a *App) Confirm(_ context.Context, prompt string) bool {
	answer, err := getSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// guard sends the user back through the gate when a call reports that the
// session is gone.
func (a *App) guard(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrNotAuthenticated) {
		if _, s, gerr := a.gate.ResolveAccess(ctx, a.screen.Page()); gerr == nil {
			a.session = s
		}
	}
	return err
}
