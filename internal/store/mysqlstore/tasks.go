package mysqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type taskRepo struct{ q querier }

const taskColumns = `t.id, t.title, t.description, t.status, t.project_id, t.assigned_to, t.created_at, t.updated_at`

var taskSortColumns = map[string]string{
	store.TaskSortCreatedAt: "t.created_at",
	store.TaskSortUpdatedAt: "t.updated_at",
	store.TaskSortTitle:     "t.title",
	store.TaskSortStatus:    "t.status",
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var assignedTo sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.ProjectID, &assignedTo, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.AssignedTo = assignedTo.String
	return &t, nil
}

// buildTaskFilter returns the FROM/WHERE part shared by listing and counting.
// Team scoping goes through the owning project.
func buildTaskFilter(q store.TaskQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString(` FROM tasks t JOIN projects p ON p.id = t.project_id WHERE p.team_id = ?`)
	args := []any{q.TeamID}

	if q.ProjectID != "" {
		sb.WriteString(` AND t.project_id = ?`)
		args = append(args, q.ProjectID)
	}
	if q.Status != "" {
		sb.WriteString(` AND t.status = ?`)
		args = append(args, q.Status)
	}
	if q.AssignedTo != "" {
		sb.WriteString(` AND t.assigned_to = ?`)
		args = append(args, q.AssignedTo)
	}
	if q.Search != "" {
		like := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		sb.WriteString(` AND (LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ?)`)
		args = append(args, like, like)
	}
	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r taskRepo) Create(ctx context.Context, t *models.Task) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, project_id, assigned_to, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Status, t.ProjectID, nullString(t.AssignedTo), t.CreatedAt, t.UpdatedAt)
	return mapErr(err)
}

func (r taskRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(r.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (r taskRepo) List(ctx context.Context, q store.TaskQuery) ([]*models.Task, error) {
	filter, args := buildTaskFilter(q)

	column, ok := taskSortColumns[q.SortBy]
	if !ok {
		column = taskSortColumns[store.TaskSortCreatedAt]
	}
	direction := " DESC"
	if q.Ascending {
		direction = " ASC"
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+taskColumns+filter+` ORDER BY `+column+direction, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r taskRepo) CountByStatus(ctx context.Context, q store.TaskQuery) (models.TaskStats, error) {
	var stats models.TaskStats

	filter, args := buildTaskFilter(q)
	rows, err := r.q.QueryContext(ctx, `SELECT t.status, COUNT(*)`+filter+` GROUP BY t.status`, args...)
	if err != nil {
		return stats, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.TaskStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, err
		}
		stats.Add(status, n)
	}
	return stats, rows.Err()
}

func (r taskRepo) Update(ctx context.Context, t *models.Task) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, assigned_to = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, t.Status, nullString(t.AssignedTo), t.UpdatedAt, t.ID))
}

func (r taskRepo) Delete(ctx context.Context, id string) error {
	return requireAffected(r.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id))
}

func (r taskRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID)
	return mapErr(err)
}
