package models

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// Task belongs to a team only through its project.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	ProjectID   string     `json:"projectId"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Project  *ProjectSummary `json:"project,omitempty"`
	Assignee *UserSummary    `json:"assignee,omitempty"`
}

type TaskStats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

// Add counts one task with the given status.
func (s *TaskStats) Add(status TaskStatus, n int) {
	s.Total += n
	switch status {
	case TaskTodo:
		s.Todo += n
	case TaskInProgress:
		s.InProgress += n
	case TaskDone:
		s.Done += n
	}
}
