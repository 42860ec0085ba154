package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type invitationRepo struct{ s *Store }

func (r invitationRepo) Create(_ context.Context, inv *models.Invitation) error {
	r.s.lock()
	defer r.s.unlock()

	for _, existing := range r.s.d.invitations {
		if existing.Code == inv.Code {
			return store.ErrConflict
		}
	}
	stored := *inv
	stored.Creator, stored.Consumer = nil, nil
	r.s.d.invitations[inv.ID] = stored
	return nil
}

func (r invitationRepo) GetActiveByCode(_ context.Context, code string, now time.Time) (*models.Invitation, error) {
	r.s.lock()
	defer r.s.unlock()

	for _, inv := range r.s.d.invitations {
		if inv.Code == code && inv.State(now) == models.InvitationActive {
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r invitationRepo) MarkUsed(_ context.Context, id, userID string, now time.Time) error {
	r.s.lock()
	defer r.s.unlock()

	inv, ok := r.s.d.invitations[id]
	if !ok || inv.State(now) != models.InvitationActive {
		return store.ErrNotFound
	}
	inv.Used = true
	inv.UsedBy = userID
	r.s.d.invitations[id] = inv
	return nil
}

func (r invitationRepo) ListActiveByTeam(_ context.Context, teamID string, now time.Time) ([]*models.Invitation, error) {
	r.s.lock()
	defer r.s.unlock()

	out := []*models.Invitation{}
	for _, inv := range r.s.d.invitations {
		if inv.TeamID == teamID && inv.ExpiresAt.After(now) {
			inv := inv
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r invitationRepo) Delete(_ context.Context, id, teamID string) error {
	r.s.lock()
	defer r.s.unlock()

	inv, ok := r.s.d.invitations[id]
	if !ok || inv.TeamID != teamID {
		return store.ErrNotFound
	}
	delete(r.s.d.invitations, id)
	return nil
}
