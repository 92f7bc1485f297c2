package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"planverse/internal/app/ports"
	"planverse/internal/domain/search"
)

type PlanExecutionRepo struct {
	store *Store
}

func NewPlanExecutionRepo(store *Store) PlanExecutionRepo {
	return PlanExecutionRepo{store: store}
}

func (r PlanExecutionRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*ports.PlanExecutionRecord, error) {
	row := getDBFromCtx(ctx, r.store.db).QueryRowContext(ctx, `
		SELECT id, fingerprint, algorithm, objective, action_ids, total_cost,
		       planning_ms, nodes_expanded, success, reason, created_at
		FROM plan_executions WHERE fingerprint = ?`, fingerprint)

	var (
		rec        ports.PlanExecutionRecord
		algorithm  string
		objective  string
		actionIDs  string
		planningMs int64
		success    int
		reason     sql.NullString
		createdAt  string
	)
	err := row.Scan(&rec.ID, &rec.Fingerprint, &algorithm, &objective, &actionIDs,
		&rec.TotalCost, &planningMs, &rec.NodesExpanded, &success, &reason, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}

	rec.Algorithm = search.Algorithm(algorithm)
	rec.Objective = search.Objective(objective)
	rec.PlanningTime = time.Duration(planningMs) * time.Millisecond
	rec.Success = success != 0
	rec.Reason = search.FailureReason(reason.String)
	if actionIDs != "" {
		_ = json.Unmarshal([]byte(actionIDs), &rec.ActionIDs)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}

func (r PlanExecutionRepo) Save(ctx context.Context, record ports.PlanExecutionRecord) error {
	idsJSON, _ := json.Marshal(record.ActionIDs)
	success := 0
	if record.Success {
		success = 1
	}
	_, err := getDBFromCtx(ctx, r.store.db).ExecContext(ctx, `
		INSERT INTO plan_executions
			(id, fingerprint, algorithm, objective, action_ids, total_cost,
			 planning_ms, nodes_expanded, success, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Fingerprint, string(record.Algorithm), string(record.Objective),
		string(idsJSON), record.TotalCost, record.PlanningTime.Milliseconds(),
		record.NodesExpanded, success, string(record.Reason),
		record.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}
