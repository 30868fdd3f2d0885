package model

import (
	"time"

	"github.com/google/uuid"
)

// LoadStatusHistory is the append-only audit trail of lifecycle
// transitions. Rows are written in the same transaction as the load
// update and are never mutated afterwards.
type LoadStatusHistory struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LoadID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"load_id"`
	FromStatus LoadStatus `gorm:"not null" json:"from_status"`
	ToStatus   LoadStatus `gorm:"not null" json:"to_status"`
	OccurredAt time.Time  `gorm:"not null" json:"occurred_at"`
	ActorID    uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	Notes      *string    `json:"notes,omitempty"`
}

func (LoadStatusHistory) TableName() string { return "load_status_history" }
