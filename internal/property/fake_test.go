package property

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nekogravitycat/estify-backend/internal/pkg/cache"
)

// memRepository is an in-memory Repository. Every read returns a copy so
// tests observe only persisted state.
type memRepository struct {
	mu     sync.Mutex
	rows   map[string]Property
	seq    int
	clock  time.Time
	failOn string
}

func newMemRepository() *memRepository {
	return &memRepository{
		rows:  map[string]Property{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memRepository) Create(_ context.Context, p *Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "create" {
		return fmt.Errorf("create failed")
	}
	m.seq++
	p.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id string) (*Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memRepository) GetByIDForUpdate(ctx context.Context, id string) (*Property, error) {
	return m.GetByID(ctx, id)
}

func (m *memRepository) List(_ context.Context, f Filter) ([]*Property, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*Property
	for _, row := range m.rows {
		p := row
		if f.Status != "" && p.Status() != f.Status {
			continue
		}
		if f.RequestType != "" && p.RequestType() != f.RequestType {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.District != "" && p.District != f.District {
			continue
		}
		if f.AgentID != "" && p.PostedByAgent != f.AgentID {
			continue
		}
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		start := min((page-1)*f.PageSize, total)
		end := min(start+f.PageSize, total)
		all = all[start:end]
	}
	return all, total, nil
}

func (m *memRepository) Update(_ context.Context, p *Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = m.tick()
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepository) WithTx(_ context.Context, fn func(repo Repository) error) error {
	snapshot := make(map[string]Property, len(m.rows))
	m.mu.Lock()
	for k, v := range m.rows {
		snapshot[k] = v
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.rows = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// seedLive stores an approved listing directly, bypassing the workflow.
func (m *memRepository) seedLive(f Fields, agentID string) *Property {
	p := &Property{Fields: f, Lifecycle: Live{}, PostedByAgent: agentID}
	_ = m.Create(context.Background(), p)
	return p
}

// pausingRepository blocks the first GetByID after it has read the row,
// until resume is closed.
type pausingRepository struct {
	*memRepository
	once    sync.Once
	fetched chan struct{}
	resume  chan struct{}
}

func newPausingRepository() *pausingRepository {
	return &pausingRepository{
		memRepository: newMemRepository(),
		fetched:       make(chan struct{}),
		resume:        make(chan struct{}),
	}
}

func (r *pausingRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	p, err := r.memRepository.GetByID(ctx, id)
	r.once.Do(func() {
		close(r.fetched)
		<-r.resume
	})
	return p, err
}

// mapCache is an in-process cache.Cache storing JSON like the Redis one.
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	raw, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *mapCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

// memImages records the image ids the service removes.
type memImages struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (m *memImages) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	return m.err
}

func (m *memImages) removedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.removed)
}
