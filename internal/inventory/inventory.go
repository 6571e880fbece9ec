package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tphummel/lab_stock/internal/models"
)

// ErrNotFound is returned when no resource has the requested ID.
var ErrNotFound = errors.New("resource not found")

// Item is a point-in-time copy of a stored resource.
type Item struct {
	ID        string
	Resource  *models.Resource
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Totals aggregates the pools of one kind.
type Totals struct {
	Resources int
	Total     int
	Allocated int
}

// entry guards one resource. Operations on different resources never contend.
type entry struct {
	mu        sync.Mutex
	id        string
	res       *models.Resource
	createdAt time.Time
	updatedAt time.Time
}

func (e *entry) snapshot() Item {
	return Item{
		ID:        e.id,
		Resource:  e.res.Clone(),
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
	}
}

// Store holds resources in memory keyed by ID.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Add stores a copy of r under a fresh ID.
func (s *Store) Add(r *models.Resource) Item {
	now := s.now()
	e := &entry{
		id:        uuid.New().String(),
		res:       r.Clone(),
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.entries[e.id] = e
	s.mu.Unlock()

	return e.snapshot()
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Get returns the resource with the given ID, or ErrNotFound.
func (s *Store) Get(id string) (Item, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Item{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !s.live(e) {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.snapshot(), nil
}

// live reports whether e is still the stored entry for its ID. Callers hold
// e.mu; the lock order is e.mu before s.mu, and no path holds s.mu while
// waiting on an entry lock.
func (s *Store) live(e *entry) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[e.id] == e
}

// List returns all resources, optionally filtered by kind. A zero kind
// matches everything. Results are ordered by name, then ID.
func (s *Store) List(kind models.Kind) []Item {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if (kind == 0 || e.res.Kind() == kind) && s.live(e) {
			items = append(items, e.snapshot())
		}
		e.mu.Unlock()
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Resource.Name() != items[j].Resource.Name() {
			return items[i].Resource.Name() < items[j].Resource.Name()
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// Delete removes the resource with the given ID.
// Returns ErrNotFound if no such resource exists. An Apply or Update still in
// flight on the entry fails with ErrNotFound instead of committing.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.entries, id)
	return nil
}

// Apply runs one quantity operation against the resource with the given ID.
// On failure the stored resource is unchanged and the returned Item reflects
// its current state.
func (s *Store) Apply(id string, op models.Op, n int) (Item, error) {
	return s.mutate(id, func(r *models.Resource) error {
		return r.Apply(op, n)
	})
}

// Update runs fn against a working copy of the resource and commits the copy
// only if fn succeeds and the resource has not been deleted meanwhile.
func (s *Store) Update(id string, fn func(*models.Resource) error) (Item, error) {
	return s.mutate(id, fn)
}

func (s *Store) mutate(id string, fn func(*models.Resource) error) (Item, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Item{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !s.live(e) {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	work := e.res.Clone()
	if err := fn(work); err != nil {
		return e.snapshot(), err
	}
	// A Delete that landed while fn ran wins; committing now would report
	// success for a resource that no longer exists.
	if !s.live(e) {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.res = work
	e.updatedAt = s.now()
	return e.snapshot(), nil
}

// Len returns the number of stored resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Summary returns per-kind totals across all stored resources. Every valid
// kind is present, with zero totals when no resource of that kind exists.
func (s *Store) Summary() map[models.Kind]Totals {
	out := make(map[models.Kind]Totals, len(models.Kinds))
	for _, k := range models.Kinds {
		out[k] = Totals{}
	}
	for _, it := range s.List(0) {
		t := out[it.Resource.Kind()]
		t.Resources++
		t.Total += it.Resource.Total()
		t.Allocated += it.Resource.Allocated()
		out[it.Resource.Kind()] = t
	}
	return out
}
