package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
	"github.com/tmedina/wasteops-billing/internal/repository"
)

// validTransitions is the fixed adjacency table of the operational
// state machine. A transition absent from the table is invalid;
// CANCELLED is reachable from every non-terminal state. The backward
// hops SCHEDULED->CREATED and ACCEPTED->SCHEDULED allow the planner to
// undo an assignment made in error.
var validTransitions = map[model.LoadStatus][]model.LoadStatus{
	model.LoadStatusRequested:          {model.LoadStatusCreated, model.LoadStatusCancelled},
	model.LoadStatusCreated:            {model.LoadStatusScheduled, model.LoadStatusCancelled},
	model.LoadStatusScheduled:          {model.LoadStatusAccepted, model.LoadStatusCreated, model.LoadStatusCancelled},
	model.LoadStatusAccepted:           {model.LoadStatusEnRoutePickup, model.LoadStatusScheduled, model.LoadStatusCancelled},
	model.LoadStatusEnRoutePickup:      {model.LoadStatusAtPickup, model.LoadStatusCancelled},
	model.LoadStatusAtPickup:           {model.LoadStatusEnRouteDestination, model.LoadStatusCancelled},
	model.LoadStatusEnRouteDestination: {model.LoadStatusAtDestination, model.LoadStatusCancelled},
	model.LoadStatusAtDestination:      {model.LoadStatusInDisposal, model.LoadStatusCompleted, model.LoadStatusCancelled},
	model.LoadStatusInDisposal:         {model.LoadStatusCompleted, model.LoadStatusCancelled},
}

func isValidTransition(from, to model.LoadStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// LifecycleService drives loads through their operational states and
// keeps the append-only audit trail.
type LifecycleService struct {
	loads *repository.LoadRepository
	log   zerolog.Logger
}

func NewLifecycleService(loads *repository.LoadRepository, log zerolog.Logger) *LifecycleService {
	return &LifecycleService{loads: loads, log: log}
}

type CreateLoadInput struct {
	OriginFacilityID uuid.UUID
	ClientID         uuid.UUID
	Requested        bool
	TripID           *uuid.UUID
	SegmentType      model.SegmentType
	ScheduledDate    *time.Time
	Attributes       model.Attributes
}

func (s *LifecycleService) CreateLoad(ctx context.Context, input CreateLoadInput) (*model.Load, error) {
	if input.OriginFacilityID == uuid.Nil || input.ClientID == uuid.Nil {
		return nil, fmt.Errorf("%w: origin facility and client are required", ErrInvalidInput)
	}
	segment := input.SegmentType
	if segment == "" {
		segment = model.SegmentDirect
	}
	if !segment.IsValid() {
		return nil, fmt.Errorf("%w: unknown segment type %q", ErrInvalidInput, segment)
	}
	if segment != model.SegmentDirect && input.TripID == nil {
		return nil, fmt.Errorf("%w: %s segments require a trip_id", ErrInvalidInput, segment)
	}

	status := model.LoadStatusCreated
	if input.Requested {
		status = model.LoadStatusRequested
	}
	now := time.Now().UTC()
	load := &model.Load{
		OriginFacilityID: input.OriginFacilityID,
		ClientID:         input.ClientID,
		Status:           status,
		FinancialStatus:  model.FinancialStatusPending,
		TripID:           input.TripID,
		SegmentType:      segment,
		ScheduledDate:    input.ScheduledDate,
		RequestedDate:    &now,
		Attributes:       input.Attributes,
	}
	if err := s.loads.Create(ctx, load); err != nil {
		return nil, err
	}
	return load, nil
}

// Transition moves a load to target, validating against the adjacency
// table and appending the history row in the same transaction as the
// status update.
func (s *LifecycleService) Transition(ctx context.Context, loadID uuid.UUID, target model.LoadStatus, actor model.Principal, notes *string) (*model.Load, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, target)
	}
	load, err := s.loads.GetByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: load %s", ErrNotFound, loadID)
		}
		return nil, err
	}

	if !isValidTransition(load.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, load.Status, target)
	}

	now := time.Now().UTC()
	from := load.Status
	load.Status = target
	s.stampTimes(load, target, now)
	if err := promoteWeights(load); err != nil {
		return nil, err
	}

	history := &model.LoadStatusHistory{
		LoadID:     load.ID,
		FromStatus: from,
		ToStatus:   target,
		OccurredAt: now,
		ActorID:    actor.UserID,
		Notes:      notes,
	}
	if err := s.loads.TransitionStatus(ctx, load, history); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("load_id", load.ID.String()).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("actor", actor.UserID.String()).
		Msg("load status transition")
	return load, nil
}

func (s *LifecycleService) stampTimes(load *model.Load, target model.LoadStatus, now time.Time) {
	switch target {
	case model.LoadStatusEnRouteDestination:
		if load.DispatchTime == nil {
			load.DispatchTime = &now
		}
	case model.LoadStatusAtDestination:
		if load.ArrivalTime == nil {
			load.ArrivalTime = &now
		}
	case model.LoadStatusInDisposal:
		if load.DisposalTime == nil {
			load.DisposalTime = &now
		}
	}
}

// promoteWeights lifts gross/tare readings out of the attributes bag
// into typed columns and derives the net weight, validating
// gross >= tare >= 0.
func promoteWeights(load *model.Load) error {
	if v, ok := numericAttribute(load.Attributes, "gross_weight_tons"); ok {
		load.GrossWeightTons = &v
	}
	if v, ok := numericAttribute(load.Attributes, "tare_weight_tons"); ok {
		load.TareWeightTons = &v
	}
	if load.GrossWeightTons == nil || load.TareWeightTons == nil {
		return nil
	}
	gross, tare := *load.GrossWeightTons, *load.TareWeightTons
	if gross < 0 || tare < 0 {
		return fmt.Errorf("%w: weights cannot be negative", ErrInvalidInput)
	}
	if gross < tare {
		return fmt.Errorf("%w: gross weight %.3f below tare %.3f", ErrInvalidInput, gross, tare)
	}
	net := gross - tare
	load.NetWeightTons = &net
	return nil
}

func numericAttribute(attrs model.Attributes, key string) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// UpdateAttributes merges readings into the bag without touching the
// state, so drivers can stage checkpoint data before a transition.
func (s *LifecycleService) UpdateAttributes(ctx context.Context, loadID uuid.UUID, attrs model.Attributes) (*model.Load, error) {
	load, err := s.loads.GetByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: load %s", ErrNotFound, loadID)
		}
		return nil, err
	}
	if load.Attributes == nil {
		load.Attributes = model.Attributes{}
	}
	for k, v := range attrs {
		load.Attributes[k] = v
	}
	if err := promoteWeights(load); err != nil {
		return nil, err
	}
	if err := s.loads.SaveReadings(ctx, load); err != nil {
		return nil, err
	}
	return load, nil
}

// Timeline returns the load's full transition history, oldest first.
func (s *LifecycleService) Timeline(ctx context.Context, loadID uuid.UUID) ([]model.LoadStatusHistory, error) {
	if _, err := s.loads.GetByID(ctx, loadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: load %s", ErrNotFound, loadID)
		}
		return nil, err
	}
	return s.loads.History(ctx, loadID)
}

// AssignLoad sets planner-owned references (contractor, vehicle,
// driver, destination) while the load is still pre-dispatch. The
// "exactly one destination" invariant is checked here, at the boundary.
type AssignLoadInput struct {
	ContractorID          *uuid.UUID
	VehicleID             *uuid.UUID
	DriverID              *uuid.UUID
	VehicleClass          *model.VehicleClass
	DestinationSiteID     *uuid.UUID
	DestinationPlantID    *uuid.UUID
	DestinationLandfillID *uuid.UUID
	ScheduledDate         *time.Time
}

func (s *LifecycleService) AssignLoad(ctx context.Context, loadID uuid.UUID, input AssignLoadInput) (*model.Load, error) {
	load, err := s.loads.GetByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: load %s", ErrNotFound, loadID)
		}
		return nil, err
	}
	if load.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: load %s is %s", ErrInvalidTransition, loadID, load.Status)
	}

	if input.ContractorID != nil {
		load.ContractorID = input.ContractorID
	}
	if input.VehicleID != nil {
		load.VehicleID = input.VehicleID
	}
	if input.DriverID != nil {
		load.DriverID = input.DriverID
	}
	if input.VehicleClass != nil {
		if !input.VehicleClass.IsValid() {
			return nil, fmt.Errorf("%w: unknown vehicle class %q", ErrInvalidInput, *input.VehicleClass)
		}
		class := string(*input.VehicleClass)
		load.VehicleClass = &class
	}
	if input.DestinationSiteID != nil {
		load.DestinationSiteID = input.DestinationSiteID
	}
	if input.DestinationPlantID != nil {
		load.DestinationPlantID = input.DestinationPlantID
	}
	if input.DestinationLandfillID != nil {
		load.DestinationLandfillID = input.DestinationLandfillID
	}
	if input.ScheduledDate != nil {
		load.ScheduledDate = input.ScheduledDate
	}

	if _, count := load.Destination(); count > 1 {
		return nil, fmt.Errorf("%w: load %s", ErrDestinationAmbiguous, loadID)
	}

	if err := s.loads.SaveAssignment(ctx, load); err != nil {
		return nil, err
	}
	return load, nil
}
