package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Users().Create(ctx, &models.User{ID: "u1", Subject: "s1", Email: "a@example.com"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	n, _ := s.Users().Count(ctx)
	if n != 0 {
		t.Errorf("expected rollback to leave 0 users, got %d", n)
	}
}

func TestTeams_AddMemberIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Teams().Create(ctx, &models.Team{ID: "t1", Name: "Company Team", IsDefault: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Teams().AddMember(ctx, "t1", "u1"); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	team, err := s.Teams().GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(team.Members) != 1 {
		t.Errorf("expected exactly one member, got %v", team.Members)
	}
}

func TestTeams_SingleDefault(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.Teams().Create(ctx, &models.Team{ID: "t1", IsDefault: true})
	err := s.Teams().Create(ctx, &models.Team{ID: "t2", IsDefault: true})
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected ErrConflict for a second default team, got %v", err)
	}
}

func TestTeams_ListAllOldestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = s.Teams().Create(ctx, &models.Team{ID: "t2", Name: "Later", CreatedAt: base.Add(time.Hour)})
	_ = s.Teams().Create(ctx, &models.Team{ID: "t1", Name: "Company Team", IsDefault: true, Members: []string{"u1"}, CreatedAt: base})

	teams, err := s.Teams().ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(teams) != 2 || teams[0].ID != "t1" || teams[1].ID != "t2" {
		t.Fatalf("expected [t1 t2], got %+v", teams)
	}
	teams[0].Members[0] = "changed"
	again, _ := s.Teams().GetByID(ctx, "t1")
	if again.Members[0] != "u1" {
		t.Errorf("listed teams must be copies, got %v", again.Members)
	}
}

func TestInvitations_MarkUsedOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	inv := &models.Invitation{ID: "i1", Code: "abc", TeamID: "t1", ExpiresAt: now.Add(time.Hour)}
	if err := s.Invitations().Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Invitations().MarkUsed(ctx, "i1", "u1", now); err != nil {
		t.Fatalf("first use: %v", err)
	}
	if err := s.Invitations().MarkUsed(ctx, "i1", "u2", now); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second use, got %v", err)
	}
	if _, err := s.Invitations().GetActiveByCode(ctx, "abc", now); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected used invitation to be inactive, got %v", err)
	}
}

func TestTasks_ListScopesByProjectTeam(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	_ = s.Projects().Create(ctx, &models.Project{ID: "p1", TeamID: "t1"})
	_ = s.Projects().Create(ctx, &models.Project{ID: "p2", TeamID: "t2"})
	_ = s.Tasks().Create(ctx, &models.Task{ID: "a", Title: "Write Docs", ProjectID: "p1", Status: models.TaskTodo, CreatedAt: now})
	_ = s.Tasks().Create(ctx, &models.Task{ID: "b", Title: "Fix login", ProjectID: "p1", Status: models.TaskDone, CreatedAt: now.Add(time.Second)})
	_ = s.Tasks().Create(ctx, &models.Task{ID: "c", Title: "Other team", ProjectID: "p2", Status: models.TaskTodo, CreatedAt: now})

	tasks, err := s.Tasks().List(ctx, store.TaskQuery{TeamID: "t1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "b" {
		t.Fatalf("expected [b a] newest first, got %d tasks", len(tasks))
	}

	tasks, _ = s.Tasks().List(ctx, store.TaskQuery{TeamID: "t1", Search: "docs"})
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("expected case-insensitive search to match task a, got %v", tasks)
	}
}
