package booking

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/estify-backend/internal/property"
)

// memRepository is an in-memory Repository. WithPropertyLock uses one
// mutex per property, mirroring the advisory lock of the pgx repository.
type memRepository struct {
	mu    sync.Mutex
	rows  map[string]Booking
	seq   int
	locks sync.Map // property id -> *sync.Mutex
	props *memProperties
}

func newMemRepository(props *memProperties) *memRepository {
	return &memRepository{rows: map[string]Booking{}, props: props}
}

func (m *memRepository) LockListing(_ context.Context, propertyID string) (*Listing, error) {
	return m.props.listing(propertyID)
}

func (m *memRepository) WithPropertyLock(_ context.Context, propertyID string, fn func(repo Repository) error) error {
	l, _ := m.locks.LoadOrStore(propertyID, &sync.Mutex{})
	l.(*sync.Mutex).Lock()
	defer l.(*sync.Mutex).Unlock()
	return fn(m)
}

func (m *memRepository) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = fmt.Sprintf("bbbbbbbb-0000-0000-0000-%012d", m.seq)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.rows[b.ID] = *b
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *memRepository) List(_ context.Context, f Filter) ([]*Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Booking
	for _, row := range m.rows {
		b := row
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.PropertyID != "" && b.PropertyID != f.PropertyID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, len(out), nil
}

func (m *memRepository) UpdateDates(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[b.ID]
	if !ok {
		return ErrNotFound
	}
	row.StartDate, row.EndDate = b.StartDate, b.EndDate
	m.rows[b.ID] = row
	return nil
}

func (m *memRepository) UpdateStatus(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[b.ID]
	if !ok {
		return ErrNotFound
	}
	row.Status = b.Status
	m.rows[b.ID] = row
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

func (m *memRepository) HasOverlap(_ context.Context, propertyID string, start, end time.Time, exclude string) (bool, error) {
	m.mu.Lock()
	found := false
	for _, b := range m.rows {
		if b.PropertyID != propertyID || b.Status == StatusRejected || b.ID == exclude {
			continue
		}
		if Overlaps(start, end, b.StartDate, b.EndDate) {
			found = true
			break
		}
	}
	m.mu.Unlock()
	// Widen the window between the check and the write.
	runtime.Gosched()
	return found, nil
}

func (m *memRepository) ListAvailability(_ context.Context, propertyID string, statuses []Status) ([]Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots := []Slot{}
	for _, b := range m.rows {
		if b.PropertyID == propertyID && slices.Contains(statuses, b.Status) {
			slots = append(slots, Slot{StartDate: b.StartDate, EndDate: b.EndDate, Status: b.Status})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartDate.Before(slots[j].StartDate) })
	return slots, nil
}

// activePairsOverlap reports whether any two non-rejected bookings of the
// same property overlap.
func (m *memRepository) activePairsOverlap() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []Booking
	for _, b := range m.rows {
		if b.Status != StatusRejected {
			active = append(active, b)
		}
	}
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if a.PropertyID == b.PropertyID && Overlaps(a.StartDate, a.EndDate, b.StartDate, b.EndDate) {
				return true
			}
		}
	}
	return false
}

// memProperties is the property table as seen by bookings.
type memProperties struct {
	mu    sync.Mutex
	props map[string]*property.Property
}

func (m *memProperties) listing(id string) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.props[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	return &Listing{ID: p.ID, Title: p.Title, Type: p.Type, Price: p.Price, Live: p.IsLive()}, nil
}

func (m *memProperties) setPrice(id string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[id].Price = price
}

func (m *memProperties) setLifecycle(id string, lc property.Lifecycle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[id].Lifecycle = lc
}

func (m *memProperties) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.props, id)
}
