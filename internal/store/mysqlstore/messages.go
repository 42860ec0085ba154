package mysqlstore

import (
	"context"
	"time"

	"github.com/nikhil/teamhub/internal/models"
)

type messageRepo struct{ q querier }

func (r messageRepo) Create(ctx context.Context, m *models.Message) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO messages (id, content, sender_id, team_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Content, m.SenderID, m.TeamID, m.Timestamp)
	return mapErr(err)
}

func (r messageRepo) ListBefore(ctx context.Context, teamID string, before time.Time, limit int) ([]*models.Message, error) {
	query := `SELECT id, content, sender_id, team_id, created_at FROM messages WHERE team_id = ?`
	args := []any{teamID}
	if !before.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, before)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.SenderID, &m.TeamID, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
