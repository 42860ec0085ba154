package memstore

import (
	"context"
	"sort"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type teamRepo struct{ s *Store }

func (r teamRepo) Create(_ context.Context, t *models.Team) error {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.d.teams[t.ID]; ok {
		return store.ErrConflict
	}
	if t.IsDefault {
		for _, existing := range r.s.d.teams {
			if existing.IsDefault {
				return store.ErrConflict
			}
		}
	}
	stored := *t
	stored.Members = append([]string(nil), t.Members...)
	r.s.d.teams[t.ID] = stored
	return nil
}

func (r teamRepo) GetByID(_ context.Context, id string) (*models.Team, error) {
	r.s.lock()
	defer r.s.unlock()

	t, ok := r.s.d.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t.Members = append([]string(nil), t.Members...)
	return &t, nil
}

func (r teamRepo) GetDefault(_ context.Context) (*models.Team, error) {
	r.s.lock()
	defer r.s.unlock()

	for _, t := range r.s.d.teams {
		if t.IsDefault {
			t.Members = append([]string(nil), t.Members...)
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r teamRepo) ListAll(_ context.Context) ([]*models.Team, error) {
	r.s.lock()
	defer r.s.unlock()

	out := make([]*models.Team, 0, len(r.s.d.teams))
	for _, t := range r.s.d.teams {
		t.Members = append([]string(nil), t.Members...)
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r teamRepo) AddMember(_ context.Context, teamID, userID string) error {
	r.s.lock()
	defer r.s.unlock()

	t, ok := r.s.d.teams[teamID]
	if !ok {
		return store.ErrNotFound
	}
	if t.HasMember(userID) {
		return nil
	}
	t.Members = append(append([]string(nil), t.Members...), userID)
	r.s.d.teams[teamID] = t
	return nil
}

func (r teamRepo) RemoveMember(_ context.Context, teamID, userID string) error {
	r.s.lock()
	defer r.s.unlock()

	t, ok := r.s.d.teams[teamID]
	if !ok {
		return store.ErrNotFound
	}
	members := make([]string, 0, len(t.Members))
	for _, id := range t.Members {
		if id != userID {
			members = append(members, id)
		}
	}
	t.Members = members
	r.s.d.teams[teamID] = t
	return nil
}
