package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
)

type ActionDefinitionRepo struct {
	store *Store
	now   func() time.Time
}

func NewActionDefinitionRepo(store *Store) ActionDefinitionRepo {
	return ActionDefinitionRepo{store: store, now: time.Now}
}

func (r ActionDefinitionRepo) Upsert(ctx context.Context, def plan.ActionDefinition) error {
	doc, err := json.Marshal(def)
	if err != nil {
		return err
	}
	_, err = getDBFromCtx(ctx, r.store.db).ExecContext(ctx, `
		INSERT INTO action_definitions (id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		def.ID, string(doc), r.now().UTC().Format(time.RFC3339Nano))
	return err
}

func (r ActionDefinitionRepo) GetByID(ctx context.Context, id string) (plan.ActionDefinition, error) {
	var doc string
	err := getDBFromCtx(ctx, r.store.db).QueryRowContext(ctx,
		`SELECT document FROM action_definitions WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return plan.ActionDefinition{}, ports.ErrNotFound
		}
		return plan.ActionDefinition{}, err
	}
	var def plan.ActionDefinition
	if err := json.Unmarshal([]byte(doc), &def); err != nil {
		return plan.ActionDefinition{}, err
	}
	return def, nil
}

func (r ActionDefinitionRepo) List(ctx context.Context) ([]plan.ActionDefinition, error) {
	rows, err := getDBFromCtx(ctx, r.store.db).QueryContext(ctx,
		`SELECT document FROM action_definitions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plan.ActionDefinition
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var def plan.ActionDefinition
		if err := json.Unmarshal([]byte(doc), &def); err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, rows.Err()
}
