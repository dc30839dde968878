package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/logging"
)

type memIdentity struct {
	mu       sync.Mutex
	users    map[string]string
	ids      map[string]string
	current  *client.Identity
	nextSub  int
	subs     map[int]func(*client.Identity)
	signOuts int
}

func newMemIdentity() *memIdentity {
	return &memIdentity{users: map[string]string{}, ids: map[string]string{}, subs: map[int]func(*client.Identity){}}
}

func (m *memIdentity) SignUp(_ context.Context, email, password string) (*client.Identity, error) {
	m.mu.Lock()
	if _, ok := m.users[email]; ok {
		m.mu.Unlock()
		return nil, common.ErrEmailInUse
	}
	m.users[email] = password
	m.ids[email] = "u" + strconv.Itoa(len(m.users))
	m.mu.Unlock()
	return m.SignIn(context.Background(), email, password)
}

func (m *memIdentity) SignIn(_ context.Context, email, password string) (*client.Identity, error) {
	m.mu.Lock()
	pw, ok := m.users[email]
	if !ok || pw != password {
		m.mu.Unlock()
		return nil, common.ErrInvalidCredentials
	}
	m.current = &client.Identity{UserID: m.ids[email], Email: email}
	id := m.current
	m.mu.Unlock()
	m.notify(id)
	return id, nil
}

func (m *memIdentity) SignOut(context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.signOuts++
	m.mu.Unlock()
	m.notify(nil)
	return nil
}

func (m *memIdentity) CurrentSession(context.Context) (*client.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, nil
}

func (m *memIdentity) OnSessionChange(_ context.Context, fn func(*client.Identity)) client.Subscription {
	m.mu.Lock()
	m.nextSub++
	key := m.nextSub
	m.subs[key] = fn
	cur := m.current
	m.mu.Unlock()
	fn(cur)
	return unsubscribe(func() {
		m.mu.Lock()
		delete(m.subs, key)
		m.mu.Unlock()
	})
}

func (m *memIdentity) notify(id *client.Identity) {
	m.mu.Lock()
	fns := make([]func(*client.Identity), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

type unsubscribe func()

func (u unsubscribe) Unsubscribe() { u() }

type memGuest struct{ set bool }

func (g *memGuest) IsSet(context.Context) (bool, error) { return g.set, nil }
func (g *memGuest) Set(context.Context) error           { g.set = true; return nil }
func (g *memGuest) Clear(context.Context) error         { g.set = false; return nil }

type memStore struct {
	mu    sync.Mutex
	seq   int
	clock time.Time
	recs  map[string][]client.Record
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), recs: map[string][]client.Record{}}
}

func (s *memStore) Insert(_ context.Context, collection, ownerID string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.clock = s.clock.Add(time.Minute)
	id := "r" + strconv.Itoa(s.seq)
	s.recs[collection] = append(s.recs[collection], client.Record{ID: id, OwnerID: ownerID, CreatedAt: s.clock, Fields: fields})
	return id, nil
}

func (s *memStore) Query(_ context.Context, collection string, filter client.Filter, _ client.Order) ([]client.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []client.Record
	for _, r := range s.recs[collection] {
		if r.OwnerID == filter.Value {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) DeleteByID(_ context.Context, collection, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.recs[collection] {
		if r.ID == id && r.OwnerID == ownerID {
			s.recs[collection] = append(s.recs[collection][:i:i], s.recs[collection][i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (s *memStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs[collection])
}

type memBlobs struct{ paths []string }

func (b *memBlobs) Store(_ context.Context, path string, _ []byte) (string, error) {
	b.paths = append(b.paths, path)
	return "http://blobs.test/" + path, nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type testApp struct {
	app      *App
	out      *bytes.Buffer
	identity *memIdentity
	guest    *memGuest
	store    *memStore
	blobs    *memBlobs
}

// runScript feeds lines to a fresh App and runs it to completion.
func runScript(t *testing.T, prepare func(*testApp), lines ...string) *testApp {
	t.Helper()
	silencePrintln(t)

	ta := &testApp{
		out:      &bytes.Buffer{},
		identity: newMemIdentity(),
		guest:    &memGuest{},
		store:    newMemStore(),
		blobs:    &memBlobs{},
	}
	if prepare != nil {
		prepare(ta)
	}
	ta.app = New(Options{
		Identity: ta.identity,
		Guest:    ta.guest,
		Store:    ta.store,
		Blobs:    ta.blobs,
		Logger:   discardLogger(),
		Timeout:  time.Second,
		In:       strings.NewReader(strings.Join(lines, "\n") + "\n"),
		Out:      ta.out,
		Now:      func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) },
	})
	ta.app.Run(context.Background())
	return ta
}
