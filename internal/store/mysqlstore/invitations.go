package mysqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/nikhil/teamhub/internal/models"
)

type invitationRepo struct{ q querier }

const invitationColumns = `id, code, team_id, created_by, email, role, used, used_by, expires_at, created_at`

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var inv models.Invitation
	var usedBy sql.NullString
	err := row.Scan(&inv.ID, &inv.Code, &inv.TeamID, &inv.CreatedBy, &inv.Email, &inv.Role,
		&inv.Used, &usedBy, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	inv.UsedBy = usedBy.String
	return &inv, nil
}

func (r invitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invitations (`+invitationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Code, inv.TeamID, inv.CreatedBy, inv.Email, inv.Role,
		inv.Used, nullString(inv.UsedBy), inv.ExpiresAt, inv.CreatedAt)
	return mapErr(err)
}

func (r invitationRepo) GetActiveByCode(ctx context.Context, code string, now time.Time) (*models.Invitation, error) {
	inv, err := scanInvitation(r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE code = ? AND used = 0 AND expires_at > ?`, code, now))
	if err != nil {
		return nil, mapErr(err)
	}
	return inv, nil
}

func (r invitationRepo) MarkUsed(ctx context.Context, id, userID string, now time.Time) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE invitations SET used = 1, used_by = ? WHERE id = ? AND used = 0 AND expires_at > ?`,
		userID, id, now))
}

func (r invitationRepo) ListActiveByTeam(ctx context.Context, teamID string, now time.Time) ([]*models.Invitation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE team_id = ? AND expires_at > ? ORDER BY created_at DESC`,
		teamID, now)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	invitations := []*models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r invitationRepo) Delete(ctx context.Context, id, teamID string) error {
	return requireAffected(r.q.ExecContext(ctx,
		`DELETE FROM invitations WHERE id = ? AND team_id = ?`, id, teamID))
}
