package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
)

type masterKey struct {
	category types.Category
	value    string
}

type masterRepository struct {
	mu      sync.RWMutex
	masters map[masterKey]*model.MasterValue
	nextID  int64
}

func newMasterRepository() *masterRepository {
	return &masterRepository{
		masters: make(map[masterKey]*model.MasterValue),
		nextID:  1,
	}
}

func copyMaster(m *model.MasterValue) *model.MasterValue {
	copied := *m
	return &copied
}

func (r *masterRepository) Upsert(ctx context.Context, value *model.MasterValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := masterKey{category: value.Category, value: value.Value}
	if existing, exists := r.masters[key]; exists {
		existing.Active = true
		// Locked flag is raised, never lowered.
		existing.SystemLocked = existing.SystemLocked || value.SystemLocked
		return nil
	}

	created := copyMaster(value)
	created.ID = r.nextID
	created.Active = true
	r.nextID++
	r.masters[key] = created
	return nil
}

func (r *masterRepository) ListActive(ctx context.Context, category types.Category) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*model.MasterValue
	for _, m := range r.masters {
		if m.Category == category && m.Active {
			entries = append(entries, m)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	values := make([]string, len(entries))
	for i, m := range entries {
		values[i] = m.Value
	}
	return values, nil
}

func (r *masterRepository) ListAll(ctx context.Context, category types.Category) ([]*model.MasterValue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*model.MasterValue
	for _, m := range r.masters {
		if m.Category == category {
			entries = append(entries, copyMaster(m))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Active != entries[j].Active {
			return entries[i].Active
		}
		return strings.ToLower(entries[i].Value) < strings.ToLower(entries[j].Value)
	})
	return entries, nil
}

func (r *masterRepository) IsLocked(ctx context.Context, category types.Category, value string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.masters[masterKey{category: category, value: value}]
	return exists && m.SystemLocked, nil
}

func (r *masterRepository) Deactivate(ctx context.Context, category types.Category, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.masters[masterKey{category: category, value: value}]
	if !exists || m.SystemLocked {
		return nil
	}
	m.Active = false
	return nil
}
