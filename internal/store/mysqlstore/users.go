package mysqlstore

import (
	"context"
	"database/sql"

	"github.com/nikhil/teamhub/internal/models"
)

type userRepo struct{ q querier }

const userColumns = `id, subject, email, name, role, team_id, created_at`

// userOrder sorts by role rank then name.
const userOrder = ` ORDER BY FIELD(role, 'ADMIN', 'MANAGER', 'MEMBER'), name`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var teamID sql.NullString
	if err := row.Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &u.Role, &teamID, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.TeamID = teamID.String
	return &u, nil
}

func (r userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Subject, u.Email, u.Name, u.Role, nullString(u.TeamID), u.CreatedAt)
	return mapErr(err)
}

func (r userRepo) get(ctx context.Context, where string, args ...any) (*models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `id = ?`, id)
}

func (r userRepo) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	return r.get(ctx, `subject = ?`, subject)
}

func (r userRepo) GetByEmailOrSubject(ctx context.Context, email, subject string) (*models.User, error) {
	return r.get(ctx, `email = ? OR subject = ?`, email, subject)
}

func (r userRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, mapErr(err)
}

func (r userRepo) list(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r userRepo) ListByTeam(ctx context.Context, teamID string) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE team_id = ?`+userOrder, teamID)
}

func (r userRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users`+userOrder)
}

func (r userRepo) ListWithoutTeam(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE team_id IS NULL`+userOrder)
}

func (r userRepo) CountByTeamAndRole(ctx context.Context, teamID string, role models.Role) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE team_id = ? AND role = ?`, teamID, role).Scan(&n)
	return n, mapErr(err)
}

func (r userRepo) UpdateRole(ctx context.Context, id string, role models.Role) error {
	// A same-value update reports zero affected rows, so existence is checked separately.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	return mapErr(err)
}

func (r userRepo) SetTeam(ctx context.Context, id, teamID string, role models.Role) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, `UPDATE users SET team_id = ?, role = ? WHERE id = ?`, nullString(teamID), role, id)
	return mapErr(err)
}

func (r userRepo) Summaries(ctx context.Context, ids []string) (map[string]*models.UserSummary, error) {
	out := make(map[string]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders, args := inClause(ids)
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, email FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, err
		}
		out[s.ID] = &s
	}
	return out, rows.Err()
}
