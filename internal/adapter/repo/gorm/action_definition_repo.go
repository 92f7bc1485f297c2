package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planverse/internal/adapter/repo/gorm/model"
	"planverse/internal/app/ports"
	"planverse/internal/domain/plan"
)

type ActionDefinitionRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewActionDefinitionRepo(db *gorm.DB) ActionDefinitionRepo {
	return ActionDefinitionRepo{db: db, now: time.Now}
}

func (r ActionDefinitionRepo) Upsert(ctx context.Context, def plan.ActionDefinition) error {
	doc, err := json.Marshal(def)
	if err != nil {
		return err
	}
	m := model.ActionDefinition{
		ID:        def.ID,
		Document:  doc,
		UpdatedAt: r.now(),
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(&m).Error
}

func (r ActionDefinitionRepo) GetByID(ctx context.Context, id string) (plan.ActionDefinition, error) {
	var m model.ActionDefinition
	err := getDBFromCtx(ctx, r.db).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return plan.ActionDefinition{}, ports.ErrNotFound
		}
		return plan.ActionDefinition{}, err
	}
	return decodeDefinition(m)
}

func (r ActionDefinitionRepo) List(ctx context.Context) ([]plan.ActionDefinition, error) {
	var rows []model.ActionDefinition
	if err := getDBFromCtx(ctx, r.db).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]plan.ActionDefinition, 0, len(rows))
	for _, m := range rows {
		def, err := decodeDefinition(m)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func decodeDefinition(m model.ActionDefinition) (plan.ActionDefinition, error) {
	var def plan.ActionDefinition
	if err := json.Unmarshal(m.Document, &def); err != nil {
		return plan.ActionDefinition{}, err
	}
	return def, nil
}
