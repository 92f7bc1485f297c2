package sqliterepo

import (
	"context"
	"encoding/json"
	"time"

	"planverse/internal/app/ports"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

// Append inserts one row per event against the context's transaction when one
// is active; callers that need the batch to be atomic run it inside
// TxManager.RunInTx.
func (r EventRepo) Append(ctx context.Context, agentID string, events []ports.StateEvent) error {
	if len(events) == 0 {
		return nil
	}
	q := getDBFromCtx(ctx, r.store.db)
	for _, e := range events {
		payload, _ := json.Marshal(e.Payload)
		if _, err := q.ExecContext(ctx, `
			INSERT INTO state_events (agent_id, type, occurred_at, payload)
			VALUES (?, ?, ?, ?)`,
			agentID, e.Type, e.OccurredAt.UTC().Format(time.RFC3339Nano), string(payload)); err != nil {
			return err
		}
	}
	return nil
}

func (r EventRepo) ListByAgentID(ctx context.Context, agentID string, limit int) ([]ports.StateEvent, error) {
	query := `
		SELECT type, occurred_at, payload FROM state_events
		WHERE agent_id = ? ORDER BY occurred_at DESC, id DESC`
	args := []any{agentID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := getDBFromCtx(ctx, r.store.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.StateEvent
	for rows.Next() {
		var (
			e          ports.StateEvent
			occurredAt string
			payload    string
		)
		if err := rows.Scan(&e.Type, &occurredAt, &payload); err != nil {
			return nil, err
		}
		e.AgentID = agentID
		if t, err := time.Parse(time.RFC3339Nano, occurredAt); err == nil {
			e.OccurredAt = t
		}
		if payload != "" {
			_ = json.Unmarshal([]byte(payload), &e.Payload)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}
