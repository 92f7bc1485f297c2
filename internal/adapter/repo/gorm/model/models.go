package model

import "time"

type PlanExecution struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Fingerprint   string    `gorm:"uniqueIndex;size:64;not null"`
	Algorithm     string    `gorm:"size:16;not null"`
	Objective     string    `gorm:"size:16;not null"`
	ActionIDs     []byte    `gorm:"type:jsonb"`
	TotalCost     float64   `gorm:"not null"`
	PlanningMs    int64     `gorm:"not null"`
	NodesExpanded int       `gorm:"not null"`
	Success       bool      `gorm:"not null"`
	Reason        string    `gorm:"size:32"`
	CreatedAt     time.Time `gorm:"not null"`
}

type ActionDefinition struct {
	ID        string    `gorm:"primaryKey;size:128"`
	Document  []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type StateEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	AgentID    string    `gorm:"index;size:128;not null"`
	Type       string    `gorm:"size:64;not null"`
	OccurredAt time.Time `gorm:"index;not null"`
	Payload    []byte    `gorm:"type:jsonb"`
}
