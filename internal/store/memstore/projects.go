package memstore

import (
	"context"
	"sort"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type projectRepo struct{ s *Store }

func (r projectRepo) Create(_ context.Context, p *models.Project) error {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.d.projects[p.ID]; ok {
		return store.ErrConflict
	}
	r.s.d.projects[p.ID] = *p
	return nil
}

func (r projectRepo) GetForTeam(_ context.Context, id, teamID string) (*models.Project, error) {
	r.s.lock()
	defer r.s.unlock()

	p, ok := r.s.d.projects[id]
	if !ok || p.TeamID != teamID {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r projectRepo) ListByTeam(_ context.Context, teamID string) ([]*models.Project, error) {
	r.s.lock()
	defer r.s.unlock()

	out := []*models.Project{}
	for _, p := range r.s.d.projects {
		if p.TeamID == teamID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r projectRepo) Update(_ context.Context, p *models.Project) error {
	r.s.lock()
	defer r.s.unlock()

	existing, ok := r.s.d.projects[p.ID]
	if !ok || existing.TeamID != p.TeamID {
		return store.ErrNotFound
	}
	r.s.d.projects[p.ID] = *p
	return nil
}

func (r projectRepo) Delete(_ context.Context, id, teamID string) error {
	r.s.lock()
	defer r.s.unlock()

	p, ok := r.s.d.projects[id]
	if !ok || p.TeamID != teamID {
		return store.ErrNotFound
	}
	delete(r.s.d.projects, id)
	return nil
}

func (r projectRepo) Summaries(_ context.Context, ids []string) (map[string]*models.ProjectSummary, error) {
	r.s.lock()
	defer r.s.unlock()

	out := make(map[string]*models.ProjectSummary, len(ids))
	for _, id := range ids {
		if p, ok := r.s.d.projects[id]; ok {
			out[id] = &models.ProjectSummary{ID: p.ID, Name: p.Name}
		}
	}
	return out, nil
}
