package mysqlstore

import (
	"context"

	"github.com/nikhil/teamhub/internal/models"
)

type projectRepo struct{ q querier }

const projectColumns = `id, name, description, status, team_id, created_by, created_at, updated_at`

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.TeamID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r projectRepo) Create(ctx context.Context, p *models.Project) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Status, p.TeamID, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	return mapErr(err)
}

func (r projectRepo) GetForTeam(ctx context.Context, id, teamID string) (*models.Project, error) {
	p, err := scanProject(r.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND team_id = ?`, id, teamID))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r projectRepo) ListByTeam(ctx context.Context, teamID string) ([]*models.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE team_id = ? ORDER BY created_at DESC`, teamID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r projectRepo) Update(ctx context.Context, p *models.Project) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, status = ?, updated_at = ? WHERE id = ? AND team_id = ?`,
		p.Name, p.Description, p.Status, p.UpdatedAt, p.ID, p.TeamID))
}

func (r projectRepo) Delete(ctx context.Context, id, teamID string) error {
	return requireAffected(r.q.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND team_id = ?`, id, teamID))
}

func (r projectRepo) Summaries(ctx context.Context, ids []string) (map[string]*models.ProjectSummary, error) {
	out := make(map[string]*models.ProjectSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders, args := inClause(ids)
	rows, err := r.q.QueryContext(ctx, `SELECT id, name FROM projects WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.ProjectSummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out[s.ID] = &s
	}
	return out, rows.Err()
}
