package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	r.s.lock()
	defer r.s.unlock()

	for _, existing := range r.s.d.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Subject == u.Subject {
			return store.ErrConflict
		}
	}
	r.s.d.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.lock()
	defer r.s.unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetBySubject(_ context.Context, subject string) (*models.User, error) {
	r.s.lock()
	defer r.s.unlock()

	for _, u := range r.s.d.users {
		if u.Subject == subject {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r userRepo) GetByEmailOrSubject(_ context.Context, email, subject string) (*models.User, error) {
	r.s.lock()
	defer r.s.unlock()

	for _, u := range r.s.d.users {
		if strings.EqualFold(u.Email, email) || (subject != "" && u.Subject == subject) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r userRepo) Count(_ context.Context) (int, error) {
	r.s.lock()
	defer r.s.unlock()
	return len(r.s.d.users), nil
}

func (r userRepo) ListByTeam(_ context.Context, teamID string) ([]*models.User, error) {
	return r.filter(func(u models.User) bool { return u.TeamID == teamID }), nil
}

func (r userRepo) ListAll(_ context.Context) ([]*models.User, error) {
	return r.filter(func(models.User) bool { return true }), nil
}

func (r userRepo) ListWithoutTeam(_ context.Context) ([]*models.User, error) {
	return r.filter(func(u models.User) bool { return u.TeamID == "" }), nil
}

func (r userRepo) filter(keep func(models.User) bool) []*models.User {
	r.s.lock()
	defer r.s.unlock()

	out := []*models.User{}
	for _, u := range r.s.d.users {
		if keep(u) {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role.Rank() != out[j].Role.Rank() {
			return out[i].Role.Rank() < out[j].Role.Rank()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r userRepo) CountByTeamAndRole(_ context.Context, teamID string, role models.Role) (int, error) {
	r.s.lock()
	defer r.s.unlock()

	n := 0
	for _, u := range r.s.d.users {
		if u.TeamID == teamID && u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r userRepo) UpdateRole(_ context.Context, id string, role models.Role) error {
	r.s.lock()
	defer r.s.unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	r.s.d.users[id] = u
	return nil
}

func (r userRepo) SetTeam(_ context.Context, id, teamID string, role models.Role) error {
	r.s.lock()
	defer r.s.unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.TeamID = teamID
	u.Role = role
	r.s.d.users[id] = u
	return nil
}

func (r userRepo) Summaries(_ context.Context, ids []string) (map[string]*models.UserSummary, error) {
	r.s.lock()
	defer r.s.unlock()

	out := make(map[string]*models.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := r.s.d.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}
