package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"planverse/internal/adapter/repo/gorm/model"
	"planverse/internal/app/ports"
	"planverse/internal/domain/search"
)

type PlanExecutionRepo struct {
	db *gorm.DB
}

func NewPlanExecutionRepo(db *gorm.DB) PlanExecutionRepo {
	return PlanExecutionRepo{db: db}
}

func (r PlanExecutionRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*ports.PlanExecutionRecord, error) {
	var m model.PlanExecution
	err := getDBFromCtx(ctx, r.db).
		Where(&model.PlanExecution{Fingerprint: fingerprint}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}

	var actionIDs []string
	if len(m.ActionIDs) > 0 {
		_ = json.Unmarshal(m.ActionIDs, &actionIDs)
	}
	return &ports.PlanExecutionRecord{
		ID:            m.ID,
		Fingerprint:   m.Fingerprint,
		Algorithm:     search.Algorithm(m.Algorithm),
		Objective:     search.Objective(m.Objective),
		ActionIDs:     actionIDs,
		TotalCost:     m.TotalCost,
		PlanningTime:  time.Duration(m.PlanningMs) * time.Millisecond,
		NodesExpanded: m.NodesExpanded,
		Success:       m.Success,
		Reason:        search.FailureReason(m.Reason),
		CreatedAt:     m.CreatedAt,
	}, nil
}

func (r PlanExecutionRepo) Save(ctx context.Context, record ports.PlanExecutionRecord) error {
	idsJSON, _ := json.Marshal(record.ActionIDs)
	m := model.PlanExecution{
		ID:            record.ID,
		Fingerprint:   record.Fingerprint,
		Algorithm:     string(record.Algorithm),
		Objective:     string(record.Objective),
		ActionIDs:     idsJSON,
		TotalCost:     record.TotalCost,
		PlanningMs:    record.PlanningTime.Milliseconds(),
		NodesExpanded: record.NodesExpanded,
		Success:       record.Success,
		Reason:        string(record.Reason),
		CreatedAt:     record.CreatedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}
