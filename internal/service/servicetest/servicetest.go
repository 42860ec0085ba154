// Package servicetest holds fakes and fixtures shared by the service tests.
package servicetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nikhil/teamhub/internal/models"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	"github.com/nikhil/teamhub/internal/store/memstore"
)

// Recorder collects activity entries in memory.
type Recorder struct {
	mu      sync.Mutex
	Entries []activityService.Entry
}

func (r *Recorder) Record(_ context.Context, e activityService.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, e)
}

// Last returns the most recent entry, or the zero Entry.
func (r *Recorder) Last() activityService.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Entries) == 0 {
		return activityService.Entry{}
	}
	return r.Entries[len(r.Entries)-1]
}

func (r *Recorder) Count(typ models.ActivityType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Entries {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// Broadcast is one captured team broadcast.
type Broadcast struct {
	TeamID  string
	Event   string
	Payload any
}

// Broadcaster captures broadcasts instead of delivering them.
type Broadcaster struct {
	mu   sync.Mutex
	Sent []Broadcast
}

func (b *Broadcaster) BroadcastToTeam(teamID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, Broadcast{TeamID: teamID, Event: event, Payload: payload})
}

func (b *Broadcaster) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := make([]string, 0, len(b.Sent))
	for _, s := range b.Sent {
		events = append(events, s.Event)
	}
	return events
}

// Clock is a settable time source.
type Clock struct {
	mu sync.Mutex
	T  time.Time
}

func NewClock() *Clock {
	return &Clock{T: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.T
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.T = c.T.Add(d)
}

// Team is a seeded team with one user per role.
type Team struct {
	Team    *models.Team
	Admin   *models.User
	Manager *models.User
	Member  *models.User
}

// SeedTeam creates a team named name in s with an admin, a manager and a
// member. IDs are prefixed with prefix so several teams can coexist.
func SeedTeam(t *testing.T, s *memstore.Store, prefix, name string, isDefault bool) *Team {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	team := &models.Team{
		ID:        prefix + "-team",
		Name:      name,
		AdminID:   prefix + "-admin",
		IsDefault: isDefault,
		CreatedAt: created,
	}
	if err := s.Teams().Create(ctx, team); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	out := &Team{Team: team}
	for _, u := range []struct {
		dst  **models.User
		role models.Role
		name string
	}{
		{&out.Admin, models.RoleAdmin, "admin"},
		{&out.Manager, models.RoleManager, "manager"},
		{&out.Member, models.RoleMember, "member"},
	} {
		user := &models.User{
			ID:        prefix + "-" + u.name,
			Subject:   prefix + "-sub-" + u.name,
			Email:     prefix + "-" + u.name + "@example.com",
			Name:      prefix + " " + u.name,
			Role:      u.role,
			CreatedAt: created,
		}
		if err := s.Users().Create(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		if err := s.Teams().AddMember(ctx, team.ID, user.ID); err != nil {
			t.Fatalf("seed member: %v", err)
		}
		if err := s.Users().SetTeam(ctx, user.ID, team.ID, u.role); err != nil {
			t.Fatalf("seed user team: %v", err)
		}
		user.TeamID = team.ID
		*u.dst = user
	}
	team.Members = []string{out.Admin.ID, out.Manager.ID, out.Member.ID}
	return out
}
