package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tmedina/wasteops-billing/internal/model"
)

func createLoad(t *testing.T, f *fixture, requested bool) *model.Load {
	t.Helper()
	scheduled := date(2025, time.March, 10)
	load, err := f.lifecycle.CreateLoad(context.Background(), CreateLoadInput{
		OriginFacilityID: uuid.New(),
		ClientID:         uuid.New(),
		Requested:        requested,
		ScheduledDate:    &scheduled,
	})
	require.NoError(t, err)
	return load
}

func TestCreateLoadDefaults(t *testing.T) {
	f := newFixture(t)

	load := createLoad(t, f, false)
	require.Equal(t, model.LoadStatusCreated, load.Status)
	require.Equal(t, model.FinancialStatusPending, load.FinancialStatus)
	require.Equal(t, model.SegmentDirect, load.SegmentType)

	requested := createLoad(t, f, true)
	require.Equal(t, model.LoadStatusRequested, requested.Status)
}

func TestCreateLoadSegmentRequiresTrip(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.CreateLoad(context.Background(), CreateLoadInput{
		OriginFacilityID: uuid.New(),
		ClientID:         uuid.New(),
		SegmentType:      model.SegmentPickup,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransitionFullPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := planner()
	load := createLoad(t, f, false)

	path := []model.LoadStatus{
		model.LoadStatusScheduled,
		model.LoadStatusAccepted,
		model.LoadStatusEnRoutePickup,
		model.LoadStatusAtPickup,
		model.LoadStatusEnRouteDestination,
		model.LoadStatusAtDestination,
		model.LoadStatusInDisposal,
		model.LoadStatusCompleted,
	}
	for _, target := range path {
		var err error
		load, err = f.lifecycle.Transition(ctx, load.ID, target, actor, nil)
		require.NoError(t, err, "transition to %s", target)
	}

	require.Equal(t, model.LoadStatusCompleted, load.Status)
	require.NotNil(t, load.DispatchTime)
	require.NotNil(t, load.ArrivalTime)
	require.NotNil(t, load.DisposalTime)

	history, err := f.lifecycle.Timeline(ctx, load.ID)
	require.NoError(t, err)
	require.Len(t, history, len(path))
	require.Equal(t, model.LoadStatusCreated, history[0].FromStatus)
	require.Equal(t, model.LoadStatusCompleted, history[len(history)-1].ToStatus)
	for _, row := range history {
		require.Equal(t, actor.UserID, row.ActorID)
	}
}

func TestTransitionRejectsInvalidHop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	load := createLoad(t, f, false)

	_, err := f.lifecycle.Transition(ctx, load.ID, model.LoadStatusCompleted, planner(), nil)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.lifecycle.Transition(ctx, load.ID, model.LoadStatus("SHIPPED"), planner(), nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransitionTerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := planner()
	load := createLoad(t, f, false)

	_, err := f.lifecycle.Transition(ctx, load.ID, model.LoadStatusCancelled, actor, nil)
	require.NoError(t, err)

	_, err = f.lifecycle.Transition(ctx, load.ID, model.LoadStatusScheduled, actor, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionCompletedIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := planner()
	load := createLoad(t, f, false)

	for _, target := range []model.LoadStatus{
		model.LoadStatusScheduled,
		model.LoadStatusAccepted,
		model.LoadStatusEnRoutePickup,
		model.LoadStatusAtPickup,
		model.LoadStatusEnRouteDestination,
		model.LoadStatusAtDestination,
		model.LoadStatusCompleted,
	} {
		_, err := f.lifecycle.Transition(ctx, load.ID, target, actor, nil)
		require.NoError(t, err)
	}

	_, err := f.lifecycle.Transition(ctx, load.ID, model.LoadStatusScheduled, actor, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelReachableFromEveryNonTerminalState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := planner()

	// Walk a fresh load to each non-terminal state, then cancel it.
	paths := map[model.LoadStatus][]model.LoadStatus{
		model.LoadStatusRequested:          nil,
		model.LoadStatusCreated:            nil,
		model.LoadStatusScheduled:          {model.LoadStatusScheduled},
		model.LoadStatusAccepted:           {model.LoadStatusScheduled, model.LoadStatusAccepted},
		model.LoadStatusEnRoutePickup:      {model.LoadStatusScheduled, model.LoadStatusAccepted, model.LoadStatusEnRoutePickup},
		model.LoadStatusAtPickup:           {model.LoadStatusScheduled, model.LoadStatusAccepted, model.LoadStatusEnRoutePickup, model.LoadStatusAtPickup},
		model.LoadStatusEnRouteDestination: {model.LoadStatusScheduled, model.LoadStatusAccepted, model.LoadStatusEnRoutePickup, model.LoadStatusAtPickup, model.LoadStatusEnRouteDestination},
		model.LoadStatusAtDestination:      {model.LoadStatusScheduled, model.LoadStatusAccepted, model.LoadStatusEnRoutePickup, model.LoadStatusAtPickup, model.LoadStatusEnRouteDestination, model.LoadStatusAtDestination},
		model.LoadStatusInDisposal:         {model.LoadStatusScheduled, model.LoadStatusAccepted, model.LoadStatusEnRoutePickup, model.LoadStatusAtPickup, model.LoadStatusEnRouteDestination, model.LoadStatusAtDestination, model.LoadStatusInDisposal},
	}

	for state, path := range paths {
		load := createLoad(t, f, state == model.LoadStatusRequested)
		for _, target := range path {
			_, err := f.lifecycle.Transition(ctx, load.ID, target, actor, nil)
			require.NoError(t, err, "reaching %s", state)
		}
		cancelled, err := f.lifecycle.Transition(ctx, load.ID, model.LoadStatusCancelled, actor, nil)
		require.NoError(t, err, "cancel from %s", state)
		require.Equal(t, model.LoadStatusCancelled, cancelled.Status)
	}
}

func TestTransitionRepairHops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := planner()
	load := createLoad(t, f, false)

	_, err := f.lifecycle.Transition(ctx, load.ID, model.LoadStatusScheduled, actor, nil)
	require.NoError(t, err)

	// Planner backs out of a scheduling mistake.
	back, err := f.lifecycle.Transition(ctx, load.ID, model.LoadStatusCreated, actor, nil)
	require.NoError(t, err)
	require.Equal(t, model.LoadStatusCreated, back.Status)

	history, err := f.lifecycle.Timeline(ctx, load.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestUpdateAttributesPromotesWeights(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	load := createLoad(t, f, false)

	updated, err := f.lifecycle.UpdateAttributes(ctx, load.ID, model.Attributes{
		"gross_weight_tons": 32.5,
		"tare_weight_tons":  12.5,
		"ph":                7.2,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.NetWeightTons)
	require.InDelta(t, 20.0, *updated.NetWeightTons, 1e-9)
	require.Equal(t, 7.2, updated.Attributes["ph"])

	reloaded, err := f.loadRepo.GetByID(ctx, load.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.NetWeightTons)
	require.InDelta(t, 20.0, *reloaded.NetWeightTons, 1e-9)
}

func TestUpdateAttributesRejectsGrossBelowTare(t *testing.T) {
	f := newFixture(t)
	load := createLoad(t, f, false)

	_, err := f.lifecycle.UpdateAttributes(context.Background(), load.ID, model.Attributes{
		"gross_weight_tons": 10.0,
		"tare_weight_tons":  12.0,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssignLoadRejectsAmbiguousDestination(t *testing.T) {
	f := newFixture(t)
	load := createLoad(t, f, false)

	siteID := uuid.New()
	plantID := uuid.New()
	_, err := f.lifecycle.AssignLoad(context.Background(), load.ID, AssignLoadInput{
		DestinationSiteID:  &siteID,
		DestinationPlantID: &plantID,
	})
	require.ErrorIs(t, err, ErrDestinationAmbiguous)
}

func TestAssignLoadPersistsReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	load := createLoad(t, f, false)

	contractorID := uuid.New()
	siteID := uuid.New()
	class := model.VehicleBatea
	assigned, err := f.lifecycle.AssignLoad(ctx, load.ID, AssignLoadInput{
		ContractorID:      &contractorID,
		VehicleClass:      &class,
		DestinationSiteID: &siteID,
	})
	require.NoError(t, err)
	require.Equal(t, contractorID, *assigned.ContractorID)

	dest, count := assigned.Destination()
	require.Equal(t, 1, count)
	require.Equal(t, model.DestinationSite, dest.Type)
	require.Equal(t, siteID, dest.ID)
}
