package mysqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nikhil/teamhub/internal/models"
)

type activityRepo struct{ q querier }

const activityColumns = `id, type, description, user_id, team_id, entity_id, entity_type, metadata, created_at`

func (r activityRepo) Create(ctx context.Context, a *models.Activity) error {
	var metadata []byte
	if len(a.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(a.Metadata); err != nil {
			return fmt.Errorf("encoding activity metadata: %w", err)
		}
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Type, a.Description, a.UserID, a.TeamID,
		nullString(a.EntityID), nullString(string(a.EntityType)), metadata, a.Timestamp)
	return mapErr(err)
}

func (r activityRepo) ListByTeam(ctx context.Context, teamID string, limit int) ([]*models.Activity, error) {
	return r.list(ctx, `team_id = ?`, teamID, limit)
}

func (r activityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	return r.list(ctx, `user_id = ?`, userID, limit)
}

func (r activityRepo) list(ctx context.Context, where, arg string, limit int) ([]*models.Activity, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE `+where+` ORDER BY created_at DESC LIMIT ?`, arg, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		var a models.Activity
		var entityID, entityType sql.NullString
		var metadata []byte
		if err := rows.Scan(&a.ID, &a.Type, &a.Description, &a.UserID, &a.TeamID,
			&entityID, &entityType, &metadata, &a.Timestamp); err != nil {
			return nil, err
		}
		a.EntityID = entityID.String
		a.EntityType = models.EntityType(entityType.String)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, fmt.Errorf("decoding activity metadata: %w", err)
			}
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}
