// Package memstore is an in-process Store used for local development and
// tests. Records are held by value so callers never share memory with it.
package memstore

import (
	"context"
	"sync"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type data struct {
	users       map[string]models.User
	teams       map[string]models.Team
	projects    map[string]models.Project
	tasks       map[string]models.Task
	messages    []models.Message
	invitations map[string]models.Invitation
	activities  []models.Activity
}

func (d *data) clone() *data {
	c := &data{
		users:       make(map[string]models.User, len(d.users)),
		teams:       make(map[string]models.Team, len(d.teams)),
		projects:    make(map[string]models.Project, len(d.projects)),
		tasks:       make(map[string]models.Task, len(d.tasks)),
		messages:    append([]models.Message(nil), d.messages...),
		invitations: make(map[string]models.Invitation, len(d.invitations)),
		activities:  append([]models.Activity(nil), d.activities...),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.teams {
		v.Members = append([]string(nil), v.Members...)
		c.teams[k] = v
	}
	for k, v := range d.projects {
		c.projects[k] = v
	}
	for k, v := range d.tasks {
		c.tasks[k] = v
	}
	for k, v := range d.invitations {
		c.invitations[k] = v
	}
	return c
}

// Store is safe for concurrent use. A transaction holds the lock for its
// whole duration.
type Store struct {
	mu   *sync.Mutex
	d    *data
	inTx bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		d: &data{
			users:       map[string]models.User{},
			teams:       map[string]models.Team{},
			projects:    map[string]models.Project{},
			tasks:       map[string]models.Task{},
			invitations: map[string]models.Invitation{},
		},
	}
}

func (s *Store) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *Store) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func (s *Store) Users() store.Users             { return userRepo{s} }
func (s *Store) Teams() store.Teams             { return teamRepo{s} }
func (s *Store) Projects() store.Projects       { return projectRepo{s} }
func (s *Store) Tasks() store.Tasks             { return taskRepo{s} }
func (s *Store) Messages() store.Messages       { return messageRepo{s} }
func (s *Store) Invitations() store.Invitations { return invitationRepo{s} }
func (s *Store) Activities() store.Activities   { return activityRepo{s} }

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	tx := &Store{mu: s.mu, d: s.d, inTx: true}
	if err := fn(ctx, tx); err != nil {
		*s.d = *snapshot
		return err
	}
	return nil
}
