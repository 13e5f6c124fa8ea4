package memory

import (
	"context"
	"sort"
	"sync"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/filter"
)

type personRepo struct {
	mu     sync.RWMutex
	people map[string]domain.Person
}

// NewPersonRepository returns a process-local store, used for development and tests.
func NewPersonRepository() domain.PersonRepository {
	return &personRepo{people: make(map[string]domain.Person)}
}

func clonePerson(p domain.Person) domain.Person {
	p.Photos = append([]string{}, p.Photos...)
	if p.BudgetNumeric != nil {
		n := *p.BudgetNumeric
		p.BudgetNumeric = &n
	}
	return p
}

func (r *personRepo) Create(_ context.Context, p *domain.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.people[p.ID] = clonePerson(*p)
	return nil
}

func (r *personRepo) GetByID(_ context.Context, id string) (*domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.people[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := clonePerson(p)
	return &out, nil
}

func (r *personRepo) Update(_ context.Context, p *domain.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.people[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.people[p.ID] = clonePerson(*p)
	return nil
}

func (r *personRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.people[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.people, id)
	return nil
}

func (r *personRepo) List(_ context.Context, pred filter.Predicate, page, pageSize int) ([]domain.Person, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []domain.Person{}
	for _, p := range r.people {
		ok, err := matches(pred, &p)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matched = append(matched, clonePerson(p))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if pageSize <= 0 {
		return matched, total, nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.Person{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
