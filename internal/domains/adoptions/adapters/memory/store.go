package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

// Store keeps animals, adoption requests and idempotency keys in process memory.
// Units of work stage their writes and validate every version they depend on at commit.
type Store struct {
	mu       sync.Mutex
	animals  map[string]*domain.Animal
	requests map[string]*domain.AdoptionRequest
	keys     map[string]ports.IdempotencyRecord
	// inserts counts request inserts per animal so listings can detect phantoms.
	inserts map[string]int64
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		animals:  make(map[string]*domain.Animal),
		requests: make(map[string]*domain.AdoptionRequest),
		keys:     make(map[string]ports.IdempotencyRecord),
		inserts:  make(map[string]int64),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock used for UpdatedAt stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

// Do runs fn against a private transaction and commits it if fn succeeds.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.begin()
	exec := func(op func(*txn) error) error { return op(tx) }
	if err := fn(ctx, viewsOf(exec)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

// Stores returns autocommit views where each call is its own transaction.
func (s *Store) Stores() ports.Stores {
	return viewsOf(func(op func(*txn) error) error {
		tx := s.begin()
		if err := op(tx); err != nil {
			return err
		}
		return s.commit(tx)
	})
}

type executor func(op func(*txn) error) error

func viewsOf(exec executor) ports.Stores {
	return ports.Stores{
		Animals:         animalView{exec: exec},
		Requests:        requestView{exec: exec},
		IdempotencyKeys: keyView{exec: exec},
	}
}

type stagedAnimal struct {
	value *domain.Animal
	base  int64
}

type stagedRequest struct {
	value *domain.AdoptionRequest
	base  int64
}

type txn struct {
	store    *Store
	animals  map[string]stagedAnimal
	requests map[string]stagedRequest
	keys     map[string]ports.IdempotencyRecord
	pins     map[string]int64
	scans    map[string]int64
}

func (s *Store) begin() *txn {
	return &txn{
		store:    s,
		animals:  make(map[string]stagedAnimal),
		requests: make(map[string]stagedRequest),
		keys:     make(map[string]ports.IdempotencyRecord),
		pins:     make(map[string]int64),
		scans:    make(map[string]int64),
	}
}

func (s *Store) commit(tx *txn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, version := range tx.pins {
		current, ok := s.animals[id]
		if !ok || current.Version != version {
			return ports.ErrVersionConflict
		}
	}
	for animalID, seen := range tx.scans {
		if s.inserts[animalID] != seen {
			return ports.ErrVersionConflict
		}
	}
	for id, staged := range tx.animals {
		if committedAnimalVersion(s.animals[id]) != staged.base {
			return ports.ErrVersionConflict
		}
	}
	for id, staged := range tx.requests {
		if committedRequestVersion(s.requests[id]) != staged.base {
			return ports.ErrVersionConflict
		}
	}
	for key := range tx.keys {
		if _, exists := s.keys[key]; exists {
			return ports.ErrDuplicate
		}
	}

	for id, staged := range tx.animals {
		s.animals[id] = staged.value
	}
	for id, staged := range tx.requests {
		if staged.base == 0 {
			s.inserts[staged.value.AnimalID]++
		}
		s.requests[id] = staged.value
	}
	for key, record := range tx.keys {
		s.keys[key] = record
	}
	return nil
}

func committedAnimalVersion(a *domain.Animal) int64 {
	if a == nil {
		return 0
	}
	return a.Version
}

func committedRequestVersion(r *domain.AdoptionRequest) int64 {
	if r == nil {
		return 0
	}
	return r.Version
}

func (tx *txn) animal(id string) (*domain.Animal, bool) {
	if staged, ok := tx.animals[id]; ok {
		return staged.value, true
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	current, ok := tx.store.animals[id]
	return current, ok
}

func (tx *txn) request(id string) (*domain.AdoptionRequest, bool) {
	if staged, ok := tx.requests[id]; ok {
		return staged.value, true
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	current, ok := tx.store.requests[id]
	return current, ok
}

// requestsWhere merges committed and staged requests matching keep, oldest first.
func (tx *txn) requestsWhere(keep func(*domain.AdoptionRequest) bool) []*domain.AdoptionRequest {
	merged := make(map[string]*domain.AdoptionRequest)
	tx.store.mu.Lock()
	for id, req := range tx.store.requests {
		merged[id] = req
	}
	tx.store.mu.Unlock()
	for id, staged := range tx.requests {
		merged[id] = staged.value
	}
	out := make([]*domain.AdoptionRequest, 0, len(merged))
	for _, req := range merged {
		if keep(req) {
			out = append(out, req.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

type animalView struct {
	exec executor
}

func (v animalView) Create(ctx context.Context, animal *domain.Animal) (*domain.Animal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.Animal
	err := v.exec(func(tx *txn) error {
		if _, exists := tx.animal(animal.ID); exists {
			return ports.ErrDuplicate
		}
		next := animal.Clone()
		next.Version = 1
		now := tx.store.now()
		if next.CreatedAt.IsZero() {
			next.CreatedAt = now
		}
		if next.UpdatedAt.IsZero() {
			next.UpdatedAt = now
		}
		tx.animals[next.ID] = stagedAnimal{value: next, base: 0}
		out = next.Clone()
		return nil
	})
	return out, err
}

func (v animalView) Get(ctx context.Context, id string) (*domain.Animal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.Animal
	err := v.exec(func(tx *txn) error {
		current, ok := tx.animal(id)
		if !ok {
			return ports.ErrAnimalNotFound
		}
		out = current.Clone()
		return nil
	})
	return out, err
}

func (v animalView) CompareAndSwap(ctx context.Context, animal *domain.Animal, expectedVersion int64) (*domain.Animal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.Animal
	err := v.exec(func(tx *txn) error {
		current, ok := tx.animal(animal.ID)
		if !ok {
			return ports.ErrAnimalNotFound
		}
		if current.Version != expectedVersion {
			return ports.ErrVersionConflict
		}
		base := expectedVersion
		if staged, ok := tx.animals[animal.ID]; ok {
			base = staged.base
		}
		next := animal.Clone()
		next.Version = expectedVersion + 1
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = tx.store.now()
		tx.animals[next.ID] = stagedAnimal{value: next, base: base}
		out = next.Clone()
		return nil
	})
	return out, err
}

func (v animalView) RequireVersion(ctx context.Context, id string, version int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return v.exec(func(tx *txn) error {
		current, ok := tx.animal(id)
		if !ok {
			return ports.ErrAnimalNotFound
		}
		if current.Version != version {
			return ports.ErrVersionConflict
		}
		if _, staged := tx.animals[id]; !staged {
			tx.pins[id] = version
		}
		return nil
	})
}

func (v animalView) List(ctx context.Context) ([]*domain.Animal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*domain.Animal
	err := v.exec(func(tx *txn) error {
		merged := make(map[string]*domain.Animal)
		tx.store.mu.Lock()
		for id, animal := range tx.store.animals {
			merged[id] = animal
		}
		tx.store.mu.Unlock()
		for id, staged := range tx.animals {
			merged[id] = staged.value
		}
		out = make([]*domain.Animal, 0, len(merged))
		for _, animal := range merged {
			out = append(out, animal.Clone())
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

type requestView struct {
	exec executor
}

func (v requestView) Create(ctx context.Context, req *domain.AdoptionRequest) (*domain.AdoptionRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.AdoptionRequest
	err := v.exec(func(tx *txn) error {
		if _, exists := tx.request(req.ID); exists {
			return ports.ErrDuplicate
		}
		next := req.Clone()
		next.Version = 1
		if next.UpdatedAt.IsZero() {
			next.UpdatedAt = tx.store.now()
		}
		tx.requests[next.ID] = stagedRequest{value: next, base: 0}
		out = next.Clone()
		return nil
	})
	return out, err
}

func (v requestView) Get(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.AdoptionRequest
	err := v.exec(func(tx *txn) error {
		current, ok := tx.request(id)
		if !ok {
			return ports.ErrRequestNotFound
		}
		out = current.Clone()
		return nil
	})
	return out, err
}

func (v requestView) CompareAndSwap(ctx context.Context, req *domain.AdoptionRequest, expectedVersion int64) (*domain.AdoptionRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.AdoptionRequest
	err := v.exec(func(tx *txn) error {
		current, ok := tx.request(req.ID)
		if !ok {
			return ports.ErrRequestNotFound
		}
		if current.Version != expectedVersion {
			return ports.ErrVersionConflict
		}
		base := expectedVersion
		if staged, ok := tx.requests[req.ID]; ok {
			base = staged.base
		}
		next := req.Clone()
		next.Version = expectedVersion + 1
		next.SubmittedAt = current.SubmittedAt
		next.UpdatedAt = tx.store.now()
		tx.requests[next.ID] = stagedRequest{value: next, base: base}
		out = next.Clone()
		return nil
	})
	return out, err
}

func (v requestView) ListByAnimal(ctx context.Context, animalID string) ([]*domain.AdoptionRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*domain.AdoptionRequest
	err := v.exec(func(tx *txn) error {
		tx.store.mu.Lock()
		seen := tx.store.inserts[animalID]
		tx.store.mu.Unlock()
		if _, scanned := tx.scans[animalID]; !scanned {
			tx.scans[animalID] = seen
		}
		out = tx.requestsWhere(func(req *domain.AdoptionRequest) bool { return req.AnimalID == animalID })
		return nil
	})
	return out, err
}

func (v requestView) List(ctx context.Context, filter ports.RequestFilter) ([]*domain.AdoptionRequest, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var (
		out   []*domain.AdoptionRequest
		total int
	)
	err := v.exec(func(tx *txn) error {
		matches := tx.requestsWhere(func(req *domain.AdoptionRequest) bool {
			if filter.AnimalID != "" && req.AnimalID != filter.AnimalID {
				return false
			}
			if len(filter.Statuses) == 0 {
				return true
			}
			for _, status := range filter.Statuses {
				if req.Status == status {
					return true
				}
			}
			return false
		})
		total = len(matches)
		start := filter.Offset
		if start > total {
			start = total
		}
		end := total
		if filter.Limit > 0 && start+filter.Limit < end {
			end = start + filter.Limit
		}
		out = matches[start:end]
		return nil
	})
	return out, total, err
}

type keyView struct {
	exec executor
}

func (v keyView) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *ports.IdempotencyRecord
	err := v.exec(func(tx *txn) error {
		if record, ok := tx.keys[key]; ok {
			out = &record
			return nil
		}
		tx.store.mu.Lock()
		defer tx.store.mu.Unlock()
		if record, ok := tx.store.keys[key]; ok {
			out = &record
		}
		return nil
	})
	return out, err
}

func (v keyView) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *ports.IdempotencyRecord
	err := v.exec(func(tx *txn) error {
		if _, staged := tx.keys[record.Key]; staged {
			return ports.ErrDuplicate
		}
		tx.store.mu.Lock()
		_, exists := tx.store.keys[record.Key]
		tx.store.mu.Unlock()
		if exists {
			return ports.ErrDuplicate
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = tx.store.now()
		}
		tx.keys[record.Key] = record
		saved := record
		out = &saved
		return nil
	})
	return out, err
}

var (
	_ ports.Persistence          = (*Store)(nil)
	_ ports.AnimalStore          = animalView{}
	_ ports.AdoptionRequestStore = requestView{}
	_ ports.IdempotencyStore     = keyView{}
)
