package service

import (
	"context"
	"sort"
	"sync"

	"physio-notes-be/internal/entity"
	"physio-notes-be/internal/repository/contract"
	"physio-notes-be/internal/repository/specification"
	"physio-notes-be/internal/repository/unitofwork"
	"physio-notes-be/pkg/events"

	"github.com/google/uuid"
)

// memoryStore backs fakeUoW. Only the specifications the services use are
// interpreted.
type memoryStore struct {
	mu         sync.Mutex
	encounters map[uuid.UUID]*entity.Encounter
	templates  map[uuid.UUID]*entity.CustomTemplate
	calls      []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		encounters: map[uuid.UUID]*entity.Encounter{},
		templates:  map[uuid.UUID]*entity.CustomTemplate{},
	}
}

func (m *memoryStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: m}
}

func (m *memoryStore) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memoryStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type fakeUoW struct {
	store *memoryStore
}

func (u *fakeUoW) Begin(ctx context.Context) error { return nil }
func (u *fakeUoW) Commit() error                   { return nil }
func (u *fakeUoW) Rollback() error                 { return nil }

func (u *fakeUoW) EncounterRepository() contract.EncounterRepository {
	return &fakeEncounterRepo{store: u.store}
}

func (u *fakeUoW) CustomTemplateRepository() contract.CustomTemplateRepository {
	return &fakeTemplateRepo{store: u.store}
}

type filter struct {
	id    *uuid.UUID
	owner *uuid.UUID
	limit int
}

func readSpecs(specs []specification.Specification) filter {
	var f filter
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			f.id = &id
		case specification.OwnedBy:
			owner := v.UserID
			f.owner = &owner
		case specification.Pagination:
			f.limit = v.Limit
		}
	}
	return f
}

func (f filter) match(id, owner uuid.UUID, deleted bool) bool {
	if deleted {
		return false
	}
	if f.id != nil && *f.id != id {
		return false
	}
	if f.owner != nil && *f.owner != owner {
		return false
	}
	return true
}

type fakeEncounterRepo struct {
	store *memoryStore
}

func (r *fakeEncounterRepo) Create(ctx context.Context, e *entity.Encounter) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("encounter.create")
	c := *e
	r.store.encounters[e.Id] = &c
	return nil
}

func (r *fakeEncounterRepo) Update(ctx context.Context, e *entity.Encounter) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("encounter.update")
	c := *e
	r.store.encounters[e.Id] = &c
	return nil
}

func (r *fakeEncounterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if e, ok := r.store.encounters[id]; ok {
		e.IsDeleted = true
	}
	return nil
}

func (r *fakeEncounterRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Encounter, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeEncounterRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Encounter, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := readSpecs(specs)
	var out []*entity.Encounter
	for _, e := range r.store.encounters {
		if f.match(e.Id, e.UserId, e.IsDeleted) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.limit > 0 && len(out) > f.limit {
		out = out[:f.limit]
	}
	return out, nil
}

func (r *fakeEncounterRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeTemplateRepo struct {
	store *memoryStore
}

func (r *fakeTemplateRepo) Create(ctx context.Context, t *entity.CustomTemplate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *t
	r.store.templates[t.Id] = &c
	return nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, t *entity.CustomTemplate) error {
	return r.Create(ctx, t)
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if t, ok := r.store.templates[id]; ok {
		t.IsDeleted = true
	}
	return nil
}

func (r *fakeTemplateRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CustomTemplate, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeTemplateRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CustomTemplate, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := readSpecs(specs)
	var out []*entity.CustomTemplate
	for _, t := range r.store.templates {
		if f.match(t.Id, t.UserId, t.IsDeleted) {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}
