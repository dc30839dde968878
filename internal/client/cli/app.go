package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/client/config"
	"github.com/dmitrijs2005/petcare/internal/client/records"
	"github.com/dmitrijs2005/petcare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/petcare/internal/client/session"
	"github.com/dmitrijs2005/petcare/internal/logging"
	"github.com/dmitrijs2005/petcare/internal/netx"
)

// initDatabase is a test seam for client.InitDatabase.
var initDatabase = client.InitDatabase

// pageKinds maps every records page to the kind it manages.
var pageKinds = map[session.Page]records.Kind{
	session.PageVaccine:  records.Vaccine,
	session.PageCare:     records.Vet,
	session.PageDiet:     records.Diet,
	session.PageExpenses: records.Expense,
	session.PagePhotos:   records.Photo,
}

// Options carries the collaborators of an App.
type Options struct {
	Identity client.IdentityProvider
	Guest    session.GuestFlag
	Store    client.RecordStore
	Blobs    client.BlobStore
	Logger   logging.Logger
	// Timeout bounds every backend call made by a records controller.
	Timeout time.Duration
	In      io.Reader
	Out     io.Writer
	// Interactive reads passwords without echo.
	Interactive bool
	Now         func() time.Time
}

type App struct {
	gate        *session.Gate
	screen      *Screen
	controllers map[session.Page]*records.Controller
	forms       map[session.Page]*records.Form
	session     session.Session
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
	logger      logging.Logger
	closers     []func() error
}

// New assembles an App over already constructed collaborators.
func New(o Options) *App {
	a := &App{
		screen:      NewScreen(o.Out),
		controllers: make(map[session.Page]*records.Controller, len(pageKinds)),
		forms:       make(map[session.Page]*records.Form, len(pageKinds)),
		reader:      bufio.NewReader(o.In),
		out:         o.Out,
		interactive: o.Interactive,
		logger:      o.Logger,
	}
	a.gate = session.NewGate(o.Identity, o.Guest, a.screen, o.Logger)

	for page, kind := range pageKinds {
		a.controllers[page] = records.NewController(kind, records.Deps{
			Store:    o.Store,
			Blobs:    o.Blobs,
			Sessions: a.gate.Resolver(),
			Confirm:  a,
			Render:   a.screen,
			Logger:   o.Logger,
			Timeout:  o.Timeout,
			Now:      o.Now,
		})
		a.forms[page] = records.NewForm()
	}
	return a
}

// NewApp opens the local database and connects to the backend described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := initDatabase(ctx, c.DatabaseFile)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	meta := metadata.NewSQLiteRepository(db)
	api := netx.NewClient(c.ServerBaseURL, &http.Client{Timeout: c.RequestTimeout})
	idp := client.NewHTTPIdentityProvider(api, meta, logger)

	a := New(Options{
		Identity:    idp,
		Guest:       session.NewMetadataGuestFlag(meta),
		Store:       client.NewHTTPRecordStore(api, idp),
		Blobs:       client.NewHTTPBlobStore(api, idp),
		Logger:      logger,
		Timeout:     c.RequestTimeout,
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: isTerminal(),
	})
	a.closers = append(a.closers, db.Close)
	return a, nil
}

// Run opens the entry page and serves commands until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}()

	a.screen.Println("Welcome to petcare (type 'help' for commands)")
	if err := a.Open(ctx, string(session.EntryPage)); err != nil {
		a.notify(err)
	}
	runREPL(ctx, a, a.status, a.reader, a.notify)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) status() string {
	return fmt.Sprintf("(%s) %s", a.session, a.screen.Page())
}

func (a *App) notify(err error) {
	a.logger.Debug(context.Background(), "command failed", "error", err)
	a.screen.Notify(err)
}
