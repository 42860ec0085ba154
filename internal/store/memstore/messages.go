package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/nikhil/teamhub/internal/models"
)

type messageRepo struct{ s *Store }

func (r messageRepo) Create(_ context.Context, m *models.Message) error {
	r.s.lock()
	defer r.s.unlock()

	stored := *m
	stored.Sender = nil
	r.s.d.messages = append(r.s.d.messages, stored)
	return nil
}

func (r messageRepo) ListBefore(_ context.Context, teamID string, before time.Time, limit int) ([]*models.Message, error) {
	r.s.lock()
	defer r.s.unlock()

	out := []*models.Message{}
	for _, m := range r.s.d.messages {
		if m.TeamID != teamID {
			continue
		}
		if !before.IsZero() && !m.Timestamp.Before(before) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
