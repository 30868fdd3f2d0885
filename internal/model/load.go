package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LoadStatus is the operational lifecycle axis of a load. Transitions
// between statuses are validated by the lifecycle service against a
// fixed adjacency table.
type LoadStatus string

const (
	LoadStatusRequested          LoadStatus = "REQUESTED"
	LoadStatusCreated            LoadStatus = "CREATED"
	LoadStatusScheduled          LoadStatus = "SCHEDULED"
	LoadStatusAccepted           LoadStatus = "ACCEPTED"
	LoadStatusEnRoutePickup      LoadStatus = "EN_ROUTE_PICKUP"
	LoadStatusAtPickup           LoadStatus = "AT_PICKUP"
	LoadStatusEnRouteDestination LoadStatus = "EN_ROUTE_DESTINATION"
	LoadStatusAtDestination      LoadStatus = "AT_DESTINATION"
	LoadStatusInDisposal         LoadStatus = "IN_DISPOSAL"
	LoadStatusCompleted          LoadStatus = "COMPLETED"
	LoadStatusCancelled          LoadStatus = "CANCELLED"
)

func (s LoadStatus) IsValid() bool {
	switch s {
	case LoadStatusRequested, LoadStatusCreated, LoadStatusScheduled,
		LoadStatusAccepted, LoadStatusEnRoutePickup, LoadStatusAtPickup,
		LoadStatusEnRouteDestination, LoadStatusAtDestination,
		LoadStatusInDisposal, LoadStatusCompleted, LoadStatusCancelled:
		return true
	}
	return false
}

func (s LoadStatus) IsTerminal() bool {
	return s == LoadStatusCompleted || s == LoadStatusCancelled
}

// FinancialStatus is the billing axis, independent of the operational
// one. It only advances once the load is operationally COMPLETED, and
// CALCULATED is set exclusively by a successful cost computation.
type FinancialStatus string

const (
	FinancialStatusPending    FinancialStatus = "PENDING"
	FinancialStatusCalculated FinancialStatus = "CALCULATED"
	FinancialStatusApproved   FinancialStatus = "APPROVED"
	FinancialStatusBilled     FinancialStatus = "BILLED"
)

func (s FinancialStatus) IsValid() bool {
	switch s {
	case FinancialStatusPending, FinancialStatusCalculated,
		FinancialStatusApproved, FinancialStatusBilled:
		return true
	}
	return false
}

// SegmentType classifies a load within a multi-hop trip. DIRECT loads
// stand alone; PICKUP_SEGMENT and MAIN_HAUL share a trip_id.
type SegmentType string

const (
	SegmentDirect   SegmentType = "DIRECT"
	SegmentPickup   SegmentType = "PICKUP_SEGMENT"
	SegmentMainHaul SegmentType = "MAIN_HAUL"
)

func (s SegmentType) IsValid() bool {
	return s == SegmentDirect || s == SegmentPickup || s == SegmentMainHaul
}

// Attributes is the free-form bag for sensor and lab readings that do
// not warrant their own columns (pH, humidity, odometer, tickets).
type Attributes map[string]any

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (a *Attributes) Scan(value any) error {
	if value == nil {
		*a = Attributes{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes column type %T", value)
	}
	if len(raw) == 0 {
		*a = Attributes{}
		return nil
	}
	return json.Unmarshal(raw, a)
}

// Load is a single waste shipment from an origin facility to one
// destination. Contractor, vehicle, driver and destination references
// stay nil until the planner assigns them.
type Load struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OriginFacilityID uuid.UUID  `gorm:"type:uuid;not null;index" json:"origin_facility_id"`
	ClientID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	ContractorID     *uuid.UUID `gorm:"type:uuid" json:"contractor_id,omitempty"`
	VehicleID        *uuid.UUID `gorm:"type:uuid" json:"vehicle_id,omitempty"`
	DriverID         *uuid.UUID `gorm:"type:uuid" json:"driver_id,omitempty"`
	VehicleClass     *string    `json:"vehicle_class,omitempty"`

	// Exactly one of the three destination references may be set; the
	// engine enforces this, not the store.
	DestinationSiteID     *uuid.UUID `gorm:"type:uuid" json:"destination_site_id,omitempty"`
	DestinationPlantID    *uuid.UUID `gorm:"type:uuid" json:"destination_plant_id,omitempty"`
	DestinationLandfillID *uuid.UUID `gorm:"type:uuid" json:"destination_landfill_id,omitempty"`

	GrossWeightTons *float64 `json:"gross_weight_tons,omitempty"`
	TareWeightTons  *float64 `json:"tare_weight_tons,omitempty"`
	NetWeightTons   *float64 `json:"net_weight_tons,omitempty"`

	Status          LoadStatus      `gorm:"not null;index" json:"status"`
	FinancialStatus FinancialStatus `gorm:"not null;index" json:"financial_status"`

	TripID      *uuid.UUID  `gorm:"type:uuid;index" json:"trip_id,omitempty"`
	SegmentType SegmentType `gorm:"not null" json:"segment_type"`

	Attributes Attributes `gorm:"type:jsonb" json:"attributes"`

	RequestedDate *time.Time `json:"requested_date,omitempty"`
	ScheduledDate *time.Time `gorm:"index" json:"scheduled_date,omitempty"`
	DispatchTime  *time.Time `json:"dispatch_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	DisposalTime  *time.Time `json:"disposal_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Load) TableName() string { return "loads" }

// Destination returns the single configured destination. count reports
// how many of the three references are set so callers can distinguish
// "none" from "ambiguous".
func (l *Load) Destination() (dest Destination, count int) {
	if l.DestinationSiteID != nil {
		dest = Destination{Type: DestinationSite, ID: *l.DestinationSiteID}
		count++
	}
	if l.DestinationPlantID != nil {
		dest = Destination{Type: DestinationFacility, ID: *l.DestinationPlantID}
		count++
	}
	if l.DestinationLandfillID != nil {
		dest = Destination{Type: DestinationLandfill, ID: *l.DestinationLandfillID}
		count++
	}
	return dest, count
}

// OperativeDate is the date tariffs are resolved against: the dispatch
// date when the load has been dispatched, otherwise the scheduled date.
func (l *Load) OperativeDate() (time.Time, bool) {
	if l.DispatchTime != nil {
		return *l.DispatchTime, true
	}
	if l.ScheduledDate != nil {
		return *l.ScheduledDate, true
	}
	return time.Time{}, false
}
