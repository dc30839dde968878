package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/client/session"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/logging"
)

const (
	DefaultTimeout = 10 * time.Second
	blobArea       = "photos"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateConfirming
	StateError
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateConfirming:
		return "confirming"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// SessionResolver yields the session records are owned by.
type SessionResolver interface {
	Resolve(ctx context.Context) (session.Session, error)
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type Renderer interface {
	Render(ctx context.Context, v View)
}

type Deps struct {
	Store    client.RecordStore
	Blobs    client.BlobStore
	Sessions SessionResolver
	Confirm  Confirmer
	Render   Renderer
	Logger   logging.Logger
	// Timeout bounds every store and identity call; zero means DefaultTimeout.
	Timeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Controller creates, lists and deletes the records of one kind for the
// current owner. Create and Delete are serialised.
type Controller struct {
	kind Kind
	deps Deps
	log  logging.Logger

	opMu sync.Mutex

	mu      sync.Mutex
	state   State
	lastErr error
}

func NewController(kind Kind, deps Deps) *Controller {
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{
		kind: kind,
		deps: deps,
		log:  deps.Logger.With("kind", kind.Name),
	}
}

func (c *Controller) Kind() Kind { return c.kind }

// State returns the current state and, in StateError, the failure that
// caused it.
func (c *Controller) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.lastErr
}

func (c *Controller) setState(s State, err error) {
	c.mu.Lock()
	c.state, c.lastErr = s, err
	c.mu.Unlock()
}

func (c *Controller) finish(err error) {
	if err != nil {
		c.setState(StateError, err)
		return
	}
	c.setState(StateIdle, nil)
}

// Create stores one record built from form. On success the form is reset and
// the list is rendered again; on failure nothing is written after the
// failing step and the form keeps its values.
func (c *Controller) Create(ctx context.Context, form *Form) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateSubmitting, nil)
	err := c.create(ctx, form)
	c.finish(err)
	if err != nil {
		c.log.Warn(ctx, "create failed", "error", err)
		return err
	}

	form.Reset()
	return c.listAndRender(ctx)
}

func (c *Controller) create(ctx context.Context, form *Form) error {
	owner, err := c.owner(ctx)
	if err != nil {
		return err
	}
	if owner == "" {
		return common.ErrNotAuthenticated
	}

	fields, err := Validate(c.kind, form)
	if err != nil {
		return err
	}

	for _, f := range c.kind.Fields {
		if f.Type != FieldAttachment || form.Attachment == nil {
			continue
		}
		url, err := c.upload(ctx, owner, form.Attachment)
		if err != nil {
			return err
		}
		fields[f.Name] = url
	}

	var id string
	err = c.call(ctx, "insert", func(ctx context.Context) error {
		var err error
		id, err = c.deps.Store.Insert(ctx, c.kind.Collection, owner, fields)
		return err
	})
	if err != nil {
		return err
	}
	c.log.Info(ctx, "record created", "id", id)
	return nil
}

// upload stores the attachment at photos/<owner>/<unix-millis>_<name>.
func (c *Controller) upload(ctx context.Context, owner string, a *Attachment) (string, error) {
	if c.deps.Blobs == nil {
		return "", fmt.Errorf("%s has no blob store: %w", c.kind.Name, common.ErrStoreUnavailable)
	}
	p := fmt.Sprintf("%s/%s/%d_%s", blobArea, owner, c.deps.Now().UnixMilli(), attachmentName(a.Name))

	var url string
	err := c.call(ctx, "upload", func(ctx context.Context) error {
		var err error
		url, err = c.deps.Blobs.Store(ctx, p, a.Data)
		return err
	})
	if err != nil {
		return "", err
	}
	c.log.Debug(ctx, "attachment stored", "path", p)
	return url, nil
}

// List returns the owner's records, newest first. Without an owner the list
// is empty.
func (c *Controller) List(ctx context.Context) ([]client.Record, error) {
	owner, err := c.owner(ctx)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, nil
	}

	var recs []client.Record
	err = c.call(ctx, "query", func(ctx context.Context) error {
		var err error
		recs, err = c.deps.Store.Query(ctx, c.kind.Collection,
			client.Filter{Field: client.FieldOwnerID, Value: owner},
			client.Order{Field: client.FieldCreatedAt, Desc: true})
		return err
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// ListAndRender replaces the rendered list with a fresh query result.
func (c *Controller) ListAndRender(ctx context.Context) error {
	return c.listAndRender(ctx)
}

func (c *Controller) listAndRender(ctx context.Context) error {
	recs, err := c.List(ctx)
	if err != nil {
		c.log.Warn(ctx, "list failed", "error", err)
		return err
	}
	c.deps.Render.Render(ctx, BuildView(c.kind, recs, c.deps.Now()))
	return nil
}

// Delete asks for confirmation and removes the owner's record id. A record
// that is already gone counts as deleted. Declining leaves everything as is.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateConfirming, nil)
	if !c.deps.Confirm.Confirm(ctx, fmt.Sprintf("Delete this %s?", c.kind.Noun)) {
		c.setState(StateIdle, nil)
		return nil
	}

	err := c.delete(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		c.log.Debug(ctx, "record already gone", "id", id)
		err = nil
	}
	c.finish(err)
	if err != nil {
		c.log.Warn(ctx, "delete failed", "id", id, "error", err)
		return err
	}
	return c.listAndRender(ctx)
}

func (c *Controller) delete(ctx context.Context, id string) error {
	if id == "" {
		return invalid("record id is required")
	}
	owner, err := c.owner(ctx)
	if err != nil {
		return err
	}
	if owner == "" {
		return common.ErrNotAuthenticated
	}
	return c.call(ctx, "delete", func(ctx context.Context) error {
		return c.deps.Store.DeleteByID(ctx, c.kind.Collection, id, owner)
	})
}

// owner resolves the current owner id, empty when there is none.
func (c *Controller) owner(ctx context.Context) (string, error) {
	var s session.Session
	err := c.call(ctx, "resolve session", func(ctx context.Context) error {
		var err error
		s, err = c.deps.Sessions.Resolve(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	owner, _ := s.Owner()
	return owner, nil
}

// call runs fn under the controller timeout. A call still running at the
// deadline is abandoned and reported as ErrStoreUnavailable, so a hung
// backend never leaves the controller in a busy state. An abandoned insert
// may still commit, in which case the record shows up on the next list.
// Variables written by fn may only be read when call returns nil.
func (c *Controller) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.deps.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return storeError(op, err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.log.Warn(ctx, "store call timed out", "op", op, "timeout", c.deps.Timeout.String())
			return fmt.Errorf("%s timed out: %w", op, common.ErrStoreUnavailable)
		}
		return ctx.Err()
	}
}

var knownErrors = []error{
	common.ErrNotAuthenticated,
	common.ErrInvalidInput,
	common.ErrInvalidCredentials,
	common.ErrEmailInUse,
	common.ErrStoreUnavailable,
	common.ErrorNotFound,
	context.Canceled,
}

// storeError keeps errors of a known category and files everything else
// under ErrStoreUnavailable.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrStoreUnavailable, err)
}
