package mysqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/nikhil/teamhub/internal/models"
)

type teamRepo struct{ q querier }

const teamColumns = `id, name, description, admin_id, is_default, created_at`

// defaultFlag stores true as 1 and false as NULL so the unique key admits
// many ordinary teams but only one default.
func defaultFlag(isDefault bool) sql.NullBool {
	return sql.NullBool{Bool: true, Valid: isDefault}
}

func (r teamRepo) Create(ctx context.Context, t *models.Team) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO teams (`+teamColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.AdminID, defaultFlag(t.IsDefault), t.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	for _, userID := range t.Members {
		if err := r.AddMember(ctx, t.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r teamRepo) get(ctx context.Context, where string, args ...any) (*models.Team, error) {
	var t models.Team
	var isDefault sql.NullBool
	err := r.q.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE `+where+` LIMIT 1`, args...).
		Scan(&t.ID, &t.Name, &t.Description, &t.AdminID, &isDefault, &t.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	t.IsDefault = isDefault.Valid && isDefault.Bool

	members, err := r.members(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Members = members
	return &t, nil
}

func (r teamRepo) members(ctx context.Context, teamID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT user_id FROM team_members WHERE team_id = ? ORDER BY joined_at, user_id`, teamID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

func (r teamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	return r.get(ctx, `id = ?`, id)
}

func (r teamRepo) GetDefault(ctx context.Context) (*models.Team, error) {
	return r.get(ctx, `is_default = 1`)
}

func (r teamRepo) ListAll(ctx context.Context) ([]*models.Team, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY created_at, id`)
	if err != nil {
		return nil, mapErr(err)
	}

	var teams []*models.Team
	for rows.Next() {
		var t models.Team
		var isDefault sql.NullBool
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.AdminID, &isDefault, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		t.IsDefault = isDefault.Valid && isDefault.Bool
		teams = append(teams, &t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Members are loaded after the team rows are closed; a transaction has
	// one connection and cannot run two result sets at once.
	for _, t := range teams {
		if t.Members, err = r.members(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (r teamRepo) AddMember(ctx context.Context, teamID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT IGNORE INTO team_members (team_id, user_id, joined_at) VALUES (?, ?, ?)`,
		teamID, userID, time.Now().UTC())
	return mapErr(err)
}

func (r teamRepo) RemoveMember(ctx context.Context, teamID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID)
	return mapErr(err)
}
