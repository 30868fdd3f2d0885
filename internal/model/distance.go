package model

import (
	"time"

	"github.com/google/uuid"
)

// DistanceEdge is a directed edge of the logistics graph. At most one
// edge exists per (origin, destination, destination type) triple;
// IsRelaySegment marks intermediate hops of consolidated trips as
// opposed to direct origin-to-destination routes.
type DistanceEdge struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OriginFacilityID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_route" json:"origin_facility_id"`
	DestinationID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_route" json:"destination_id"`
	DestinationType  DestinationType `gorm:"not null;uniqueIndex:uq_route" json:"destination_type"`
	DistanceKM       float64         `gorm:"not null" json:"distance_km"`
	IsRelaySegment   bool            `gorm:"not null" json:"is_relay_segment"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (DistanceEdge) TableName() string { return "distance_matrix" }
