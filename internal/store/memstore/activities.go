package memstore

import (
	"context"
	"sort"

	"github.com/nikhil/teamhub/internal/models"
)

type activityRepo struct{ s *Store }

func (r activityRepo) Create(_ context.Context, a *models.Activity) error {
	r.s.lock()
	defer r.s.unlock()

	stored := *a
	stored.User = nil
	r.s.d.activities = append(r.s.d.activities, stored)
	return nil
}

func (r activityRepo) ListByTeam(_ context.Context, teamID string, limit int) ([]*models.Activity, error) {
	return r.list(func(a models.Activity) bool { return a.TeamID == teamID }, limit), nil
}

func (r activityRepo) ListByUser(_ context.Context, userID string, limit int) ([]*models.Activity, error) {
	return r.list(func(a models.Activity) bool { return a.UserID == userID }, limit), nil
}

func (r activityRepo) list(keep func(models.Activity) bool, limit int) []*models.Activity {
	r.s.lock()
	defer r.s.unlock()

	out := []*models.Activity{}
	for _, a := range r.s.d.activities {
		if keep(a) {
			a := a
			out = append(out, &a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
