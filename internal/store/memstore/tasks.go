package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type taskRepo struct{ s *Store }

func (r taskRepo) Create(_ context.Context, t *models.Task) error {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.d.tasks[t.ID]; ok {
		return store.ErrConflict
	}
	stored := *t
	stored.Project, stored.Assignee = nil, nil
	r.s.d.tasks[t.ID] = stored
	return nil
}

func (r taskRepo) GetByID(_ context.Context, id string) (*models.Task, error) {
	r.s.lock()
	defer r.s.unlock()

	t, ok := r.s.d.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (r taskRepo) matching(q store.TaskQuery) []*models.Task {
	search := strings.ToLower(q.Search)

	out := []*models.Task{}
	for _, t := range r.s.d.tasks {
		p, ok := r.s.d.projects[t.ProjectID]
		if !ok || p.TeamID != q.TeamID {
			continue
		}
		if q.ProjectID != "" && t.ProjectID != q.ProjectID {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.AssignedTo != "" && t.AssignedTo != q.AssignedTo {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		t := t
		out = append(out, &t)
	}
	return out
}

func (r taskRepo) List(_ context.Context, q store.TaskQuery) ([]*models.Task, error) {
	r.s.lock()
	defer r.s.unlock()

	out := r.matching(q)
	less := func(a, b *models.Task) bool {
		switch q.SortBy {
		case store.TaskSortUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case store.TaskSortTitle:
			return a.Title < b.Title
		case store.TaskSortStatus:
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out, nil
}

func (r taskRepo) CountByStatus(_ context.Context, q store.TaskQuery) (models.TaskStats, error) {
	r.s.lock()
	defer r.s.unlock()

	var stats models.TaskStats
	for _, t := range r.matching(q) {
		stats.Add(t.Status, 1)
	}
	return stats, nil
}

func (r taskRepo) Update(_ context.Context, t *models.Task) error {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.d.tasks[t.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *t
	stored.Project, stored.Assignee = nil, nil
	r.s.d.tasks[t.ID] = stored
	return nil
}

func (r taskRepo) Delete(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.d.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.d.tasks, id)
	return nil
}

func (r taskRepo) DeleteByProject(_ context.Context, projectID string) error {
	r.s.lock()
	defer r.s.unlock()

	for id, t := range r.s.d.tasks {
		if t.ProjectID == projectID {
			delete(r.s.d.tasks, id)
		}
	}
	return nil
}
