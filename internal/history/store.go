package history

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/pkg/pagination"
)

// Persister writes the durable form of one store.
type Persister interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
	Delete(ctx context.Context) error
}

// Store is an ordered, newest-first evaluation log. Every mutation is
// persisted before it returns; a failed write restores the previous state.
type Store struct {
	mu        sync.Mutex
	records   []Record
	capacity  int
	persister Persister
	now       func() time.Time
}

// Open loads the persisted records and returns a store bounded by capacity.
// A slot holding more than capacity records is trimmed and saved before Open
// returns. A non-positive capacity leaves the store unbounded.
func Open(ctx context.Context, p Persister, capacity int) (*Store, error) {
	records, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	s := &Store{
		records:   records,
		capacity:  capacity,
		persister: p,
		now:       time.Now,
	}
	if s.capacity > 0 && len(s.records) > s.capacity {
		trimmed := s.records[:s.capacity]
		if err := p.Save(ctx, trimmed); err != nil {
			return nil, fmt.Errorf("trim history to %d records: %w", s.capacity, err)
		}
		s.records = trimmed
	}
	return s, nil
}

// Append creates a record at the head of the log and evicts the oldest
// record when the store is over capacity.
func (s *Store) Append(ctx context.Context, e Entry) (Record, error) {
	if e.Payload.Empty() {
		return Record{}, ErrNoEvaluation
	}

	single, combined := e.Payload.Wire()
	primary, _ := e.Payload.Primary()

	r := Record{
		ID:                 newID(),
		Question:           e.Question,
		Response:           e.Response,
		RawEvaluation:      single,
		CombinedEvaluation: combined,
		Label:              evaluation.Parse(primary.Raw).Label,
		Timestamp:          s.now().UTC(),
		DocumentName:       e.DocumentName,
		ImprovedFrom:       e.ImprovedFrom,
		IsImproved:         e.Improved,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Record, 0, len(s.records)+1)
	next = append(next, r)
	next = append(next, s.records...)
	if s.capacity > 0 && len(next) > s.capacity {
		next = next[:s.capacity]
	}

	if err := s.commit(ctx, next); err != nil {
		return Record{}, err
	}
	return r, nil
}

// MarkImproved flags the record with id as the result of an improve round-trip.
// An unknown id is ignored.
func (s *Store) MarkImproved(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 || s.records[i].IsImproved {
		return nil
	}

	next := slices.Clone(s.records)
	next[i].IsImproved = true
	return s.commit(ctx, next)
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}

	next := slices.Delete(slices.Clone(s.records), i, i+1)
	return s.commit(ctx, next)
}

// Clear empties the log and its durable form. Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Delete(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.records = nil
	return nil
}

// Get returns one record by id.
func (s *Store) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}
	return s.records[i], nil
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// List returns the records matching filter, newest first.
func (s *Store) List(filter Filter) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if filter.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Paginate returns the 1-indexed page of records and the total page count.
// Pages past the end are empty.
func Paginate(records []Record, page, pageSize int) ([]Record, int) {
	return pagination.Slice(records, page, pageSize)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.ID == id })
}

// commit persists next and swaps it in. s.mu must be held.
func (s *Store) commit(ctx context.Context, next []Record) error {
	if err := s.persister.Save(ctx, next); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	s.records = next
	return nil
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Search   string
	Severity evaluation.Severity
	Label    string
	From     *time.Time
	To       *time.Time
}

// Match reports whether r satisfies every set field.
func (f Filter) Match(r Record) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Question), q) &&
			!strings.Contains(strings.ToLower(r.Response), q) {
			return false
		}
	}
	if f.Label != "" && !strings.EqualFold(r.Label, f.Label) {
		return false
	}
	if f.Severity != "" && r.Severity() != f.Severity {
		return false
	}
	if f.From != nil && r.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && r.Timestamp.After(*f.To) {
		return false
	}
	return true
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
