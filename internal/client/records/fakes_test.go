package records

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/client/session"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/logging"
)

// memStore is an in-memory RecordStore; createdAt comes from a ticking clock.
type memStore struct {
	mu      sync.Mutex
	seq     int
	clock   time.Time
	data    map[string][]client.Record
	inserts int
	err     error
	// hang blocks every call until the context ends.
	hang bool
}

func newMemStore() *memStore {
	return &memStore{
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		data:  map[string][]client.Record{},
	}
}

func (s *memStore) wait(ctx context.Context) error {
	if s.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func (s *memStore) Insert(ctx context.Context, collection, ownerID string, fields map[string]any) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inserts++
	s.clock = s.clock.Add(time.Second)
	id := "r" + strconv.Itoa(s.seq)
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	s.data[collection] = append(s.data[collection], client.Record{ID: id, OwnerID: ownerID, CreatedAt: s.clock, Fields: cp})
	return id, nil
}

func (s *memStore) Query(ctx context.Context, collection string, filter client.Filter, order client.Order) ([]client.Record, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []client.Record
	for _, r := range s.data[collection] {
		if filter.Field == client.FieldOwnerID && r.OwnerID == filter.Value {
			out = append(out, r)
		}
	}
	if order.Field == client.FieldCreatedAt {
		sort.SliceStable(out, func(i, j int) bool {
			if order.Desc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return out, nil
}

func (s *memStore) DeleteByID(ctx context.Context, collection, id, ownerID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.data[collection]
	for i, r := range recs {
		if r.ID == id && r.OwnerID == ownerID {
			s.data[collection] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memBlobs struct {
	paths []string
	err   error
}

func (b *memBlobs) Store(_ context.Context, path string, _ []byte) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.paths = append(b.paths, path)
	return "http://blobs.test/" + path, nil
}

type fixedSession struct {
	s   session.Session
	err error
}

func (f *fixedSession) Resolve(context.Context) (session.Session, error) { return f.s, f.err }

type answer bool

func (a answer) Confirm(context.Context, string) bool { return bool(a) }

type lastView struct {
	views []View
}

func (l *lastView) Render(_ context.Context, v View) { l.views = append(l.views, v) }

func (l *lastView) last() View {
	if len(l.views) == 0 {
		return View{}
	}
	return l.views[len(l.views)-1]
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type harness struct {
	store   *memStore
	blobs   *memBlobs
	session *fixedSession
	view    *lastView
	ctrl    *Controller
}

func newHarness(kind Kind, s session.Session, confirm bool) *harness {
	h := &harness{
		store:   newMemStore(),
		blobs:   &memBlobs{},
		session: &fixedSession{s: s},
		view:    &lastView{},
	}
	h.ctrl = NewController(kind, Deps{
		Store:    h.store,
		Blobs:    h.blobs,
		Sessions: h.session,
		Confirm:  answer(confirm),
		Render:   h.view,
		Logger:   discardLogger(),
		Timeout:  time.Second,
		Now:      func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	return h
}
