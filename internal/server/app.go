// Package server wires the petcare backend: storage drivers, services and
// the HTTP API, and runs it until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dmitrijs2005/petcare/internal/logging"
	"github.com/dmitrijs2005/petcare/internal/server/blob"
	"github.com/dmitrijs2005/petcare/internal/server/config"
	"github.com/dmitrijs2005/petcare/internal/server/httpapi"
	"github.com/dmitrijs2005/petcare/internal/server/repositories/documents"
	"github.com/dmitrijs2005/petcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/petcare/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	shutdownTimeout    = 10 * time.Second
	tokenPurgeInterval = time.Hour
)

// seams for tests
var (
	openPostgres       = repomanager.OpenPostgres
	newRepoManager     = repomanager.NewPostgresRepositoryManager
	newFirestoreClient = firestore.NewClient
	newS3Store         = blob.NewS3Store
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	closers     []func() error
	userService *services.UserService
	handler     http.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, flush, err := newLogger(c)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}
	if flush != nil {
		app.closers = append(app.closers, flush)
	}

	db, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	m := newRepoManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	docs, err := app.newDocumentRepository(ctx, m)
	if err != nil {
		app.Close()
		return nil, err
	}

	store, err := newBlobStore(ctx, c)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.userService = services.NewUserService(db, m, c)
	ds := services.NewDocumentService(docs)
	bs := services.NewBlobService(store, c.PublicBaseURL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := httpapi.NewHandler(app.userService, ds, bs, logger.With("module", "httpapi"))
	app.handler = httpapi.NewRouter(h, reg)

	return app, nil
}

// newLogger builds the configured logger. The returned func flushes
// buffered output, when the backend has any.
func newLogger(c *config.Config) (logging.Logger, func() error, error) {
	switch c.LogBackend {
	case config.LogBackendZap:
		z, err := logging.NewZapProduction(c.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return z, z.Sync, nil
	case config.LogBackendSlog, "":
		return logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel)), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", c.LogBackend)
	}
}

func (app *App) newDocumentRepository(ctx context.Context, m repomanager.RepositoryManager) (documents.Repository, error) {
	switch app.config.DocumentDriver {
	case config.DocumentDriverPostgres, "":
		return m.Documents(app.db), nil
	case config.DocumentDriverFirestore:
		if app.config.FirestoreProjectID == "" {
			return nil, errors.New("firestore project id is required")
		}
		client, err := newFirestoreClient(ctx, app.config.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("firestore init error: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		return documents.NewFirestoreRepository(client), nil
	default:
		return nil, fmt.Errorf("unknown document driver %q", app.config.DocumentDriver)
	}
}

func newBlobStore(ctx context.Context, c *config.Config) (blob.Store, error) {
	switch c.BlobDriver {
	case config.BlobDriverS3, "":
		s, err := newS3Store(ctx, blob.S3Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return s, nil
	case config.BlobDriverMemory:
		return blob.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", c.BlobDriver)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startTokenPurger drops expired refresh tokens periodically until ctx ends.
func (app *App) startTokenPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "failed to purge refresh tokens", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged refresh tokens", "removed", n)
			}
		}
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or the process receives a stop signal.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startTokenPurger(ctx, tokenPurgeInterval)
	}()

	wg.Wait()

	app.Close()
}

// Close releases every resource opened by NewApp, newest first.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close error", "error", err)
		}
	}
	app.closers = nil
}
