package cache

import (
	"container/list"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/trip-recommender/internal/platform/resilience"
)

const defaultCapacity = 10000

type entry struct {
	key       string
	value     any
	createdAt time.Time
	expiresAt time.Time
}

// Store is an in-memory TTL cache bounded by an LRU capacity. Each entry
// carries its own expiry; reads expire lazily and Sweep evicts in bulk.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List
	ttl      time.Duration
	capacity int
	now      func() time.Time
	flight   resilience.SingleFlight
}

type Option func(*Store)

func WithCapacity(capacity int) Option {
	return func(s *Store) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		ttl:      ttl,
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.removeElement(elem)
		return nil, false
	}
	s.order.MoveToFront(elem)

	return e.value, true
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.ttl)
}

// SetWithTTL stores value with its own expiry. A non-positive ttl never expires.
func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}

	now := s.now()
	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.createdAt = now
		e.expiresAt = expiresAt
		s.order.MoveToFront(elem)
		return
	}

	elem := s.order.PushFront(&entry{
		key:       key,
		value:     value,
		createdAt: now,
		expiresAt: expiresAt,
	})
	s.entries[key] = elem

	for s.order.Len() > s.capacity {
		s.removeElement(s.order.Back())
	}
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	if elem, ok := s.entries[key]; ok {
		s.removeElement(elem)
	}
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}
	return s.deleteMatching(func(key string) bool { return strings.HasPrefix(key, prefix) })
}

// DeleteContaining removes every key containing fragment.
func (s *Store) DeleteContaining(_ context.Context, fragment string) int {
	if fragment == "" {
		return 0
	}
	return s.deleteMatching(func(key string) bool { return strings.Contains(key, fragment) })
}

func (s *Store) deleteMatching(match func(string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, elem := range s.entries {
		if match(key) {
			s.removeElement(elem)
			removed++
		}
	}
	return removed
}

// Sweep evicts every entry expired at the store clock's current time.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for _, elem := range s.entries {
		e := elem.Value.(*entry)
		if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
			s.removeElement(elem)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.DoContext(ctx, key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	e := elem.Value.(*entry)
	delete(s.entries, e.key)
	s.order.Remove(elem)
}
