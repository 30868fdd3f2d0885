package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
	"github.com/tmedina/wasteops-billing/internal/repository"
)

// CostService computes per-load cost and revenue figures in UF and
// owns the financial axis of the load. Segments of a consolidated trip
// are costed independently; the per-trip figure is a read-side rollup.
type CostService struct {
	loads     *repository.LoadRepository
	cycles    *repository.CycleRepository
	tariffs   *TariffService
	distances *DistanceService
	log       zerolog.Logger
}

func NewCostService(
	loads *repository.LoadRepository,
	cycles *repository.CycleRepository,
	tariffs *TariffService,
	distances *DistanceService,
	log zerolog.Logger,
) *CostService {
	return &CostService{
		loads:     loads,
		cycles:    cycles,
		tariffs:   tariffs,
		distances: distances,
		log:       log,
	}
}

// ComputeCost costs one completed load against the currently open
// billing cycle. Recomputing inside the same open cycle replaces the
// record with identical figures; recomputing a load whose record is
// tagged to a closed cycle fails, the closed indicators are immutable.
func (s *CostService) ComputeCost(ctx context.Context, loadID uuid.UUID) (*model.CostResult, error) {
	load, err := s.loads.GetByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: load %s", ErrNotFound, loadID)
		}
		return nil, err
	}
	if load.Status != model.LoadStatusCompleted {
		return nil, fmt.Errorf("%w: load %s is %s", ErrLoadNotCompleted, loadID, load.Status)
	}

	dest, count := load.Destination()
	switch {
	case count == 0:
		return nil, fmt.Errorf("%w: load %s", ErrNoDestination, loadID)
	case count > 1:
		return nil, fmt.Errorf("%w: load %s", ErrDestinationAmbiguous, loadID)
	}

	cycle, err := s.cycles.GetOpen(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenCycle
		}
		return nil, err
	}

	// A load already costed in an earlier, now-closed cycle may not be
	// recomputed with current indicators. Corrections go through a
	// superseding adjustment, not a recompute.
	if existing, err := s.loads.GetCost(ctx, loadID); err == nil {
		if existing.BillingCycleID != cycle.ID {
			prior, err := s.cycles.GetByID(ctx, existing.BillingCycleID)
			if err != nil {
				return nil, err
			}
			if prior.IsClosed {
				return nil, fmt.Errorf("%w: load %s was costed in cycle %s",
					ErrCycleClosed, loadID, prior.Code)
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if load.ContractorID == nil || load.VehicleClass == nil {
		return nil, fmt.Errorf("%w: load %s has no contractor/vehicle class assigned", ErrInvalidInput, loadID)
	}
	if load.NetWeightTons == nil || *load.NetWeightTons <= 0 {
		return nil, fmt.Errorf("%w: load %s has no positive net weight", ErrInvalidInput, loadID)
	}
	opDate, ok := load.OperativeDate()
	if !ok {
		return nil, fmt.Errorf("%w: load %s has neither dispatch nor scheduled date", ErrInvalidInput, loadID)
	}

	relay := load.SegmentType == model.SegmentPickup
	distanceKM, err := s.distances.ResolveDistance(ctx, load.OriginFacilityID, dest, relay)
	if err != nil {
		return nil, err
	}

	contractorTariff, err := s.tariffs.ResolveContractorTariff(ctx, *load.ContractorID, model.VehicleClass(*load.VehicleClass), opDate)
	if err != nil {
		return nil, err
	}

	// factor = cycle fuel price over the price the rate was pivoted on.
	factor := cycle.FuelPrice.Div(contractorTariff.BaseFuelPrice)
	billable := *load.NetWeightTons
	if contractorTariff.MinWeightGuaranteed > billable {
		billable = contractorTariff.MinWeightGuaranteed
	}

	contractorCost := contractorTariff.BaseRateUF.
		Mul(factor).
		Mul(decimal.NewFromFloat(distanceKM)).
		Mul(decimal.NewFromFloat(billable))

	revenue, revenueByConcept, err := s.clientRevenue(ctx, load, dest, opDate)
	if err != nil {
		return nil, err
	}

	disposalCost := decimal.Zero
	var disposalTariffID *uuid.UUID
	if dest.Type == model.DestinationSite || dest.Type == model.DestinationLandfill {
		siteTariff, err := s.tariffs.ResolveDisposalSiteTariff(ctx, dest.ID, opDate)
		if err != nil {
			return nil, err
		}
		siteBillable := *load.NetWeightTons
		if siteTariff.MinWeightGuaranteed > siteBillable {
			siteBillable = siteTariff.MinWeightGuaranteed
		}
		disposalCost = siteTariff.RateUF.Mul(decimal.NewFromFloat(siteBillable))
		disposalTariffID = &siteTariff.ID
	}

	cost := model.LoadCost{
		LoadID:             load.ID,
		BillingCycleID:     cycle.ID,
		DistanceKM:         distanceKM,
		BillableWeight:     billable,
		FuelFactor:         factor,
		ContractorTariffID: contractorTariff.ID,
		ContractorCostUF:   contractorCost,
		DisposalTariffID:   disposalTariffID,
		DisposalCostUF:     disposalCost,
		ClientRevenueUF:    revenue,
		TotalCostUF:        contractorCost.Add(disposalCost),
		ComputedAt:         time.Now().UTC(),
	}
	if err := s.loads.SaveCost(ctx, &cost); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("load_id", load.ID.String()).
		Str("cycle", cycle.Code).
		Str("total_cost_uf", cost.TotalCostUF.String()).
		Str("client_revenue_uf", cost.ClientRevenueUF.String()).
		Msg("load costed")

	return &model.CostResult{Cost: cost, RevenueByConcept: revenueByConcept}, nil
}

// clientRevenue bills TRANSPORT on every load, TREATMENT when the load
// goes to a treatment plant, DISPOSAL when it goes to a site or
// landfill. Client rates are flat in UF, each concept applying its own
// guaranteed-weight floor, no fuel adjustment.
func (s *CostService) clientRevenue(ctx context.Context, load *model.Load, dest model.Destination, opDate time.Time) (decimal.Decimal, map[model.BillingConcept]decimal.Decimal, error) {
	concepts := []model.BillingConcept{model.ConceptTransport}
	switch dest.Type {
	case model.DestinationFacility:
		concepts = append(concepts, model.ConceptTreatment)
	case model.DestinationSite, model.DestinationLandfill:
		concepts = append(concepts, model.ConceptDisposal)
	}

	total := decimal.Zero
	byConcept := make(map[model.BillingConcept]decimal.Decimal, len(concepts))
	for _, concept := range concepts {
		tariff, err := s.tariffs.ResolveClientTariff(ctx, load.ClientID, concept, opDate)
		if err != nil {
			return decimal.Zero, nil, err
		}
		billable := *load.NetWeightTons
		if tariff.MinWeightGuaranteed > billable {
			billable = tariff.MinWeightGuaranteed
		}
		amount := tariff.RateUF.Mul(decimal.NewFromFloat(billable))
		byConcept[concept] = amount
		total = total.Add(amount)
	}
	return total, byConcept, nil
}

// TripCost aggregates the persisted per-segment figures of one trip.
// Reporting only; nothing here feeds back into costing.
func (s *CostService) TripCost(ctx context.Context, tripID uuid.UUID) (*model.TripCost, error) {
	loads, err := s.loads.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(loads) == 0 {
		return nil, fmt.Errorf("%w: trip %s", ErrNotFound, tripID)
	}

	rollup := model.TripCost{
		TripID:         tripID,
		TotalCostUF:    decimal.Zero,
		TotalRevenueUF: decimal.Zero,
	}
	for _, load := range loads {
		cost, err := s.loads.GetCost(ctx, load.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // segment not costed yet
			}
			return nil, err
		}
		rollup.Segments++
		rollup.TotalDistanceKM += cost.DistanceKM
		rollup.TotalCostUF = rollup.TotalCostUF.Add(cost.TotalCostUF)
		rollup.TotalRevenueUF = rollup.TotalRevenueUF.Add(cost.ClientRevenueUF)
	}
	return &rollup, nil
}

// ApproveLoad advances CALCULATED -> APPROVED.
func (s *CostService) ApproveLoad(ctx context.Context, loadID uuid.UUID) (*model.Load, error) {
	return s.advanceFinancial(ctx, loadID, model.FinancialStatusCalculated, model.FinancialStatusApproved)
}

// BillLoad advances APPROVED -> BILLED.
func (s *CostService) BillLoad(ctx context.Context, loadID uuid.UUID) (*model.Load, error) {
	return s.advanceFinancial(ctx, loadID, model.FinancialStatusApproved, model.FinancialStatusBilled)
}

func (s *CostService) advanceFinancial(ctx context.Context, loadID uuid.UUID, from, to model.FinancialStatus) (*model.Load, error) {
	load, err := s.loads.GetByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: load %s", ErrNotFound, loadID)
		}
		return nil, err
	}
	if load.Status != model.LoadStatusCompleted {
		return nil, fmt.Errorf("%w: load %s is %s", ErrLoadNotCompleted, loadID, load.Status)
	}
	if load.FinancialStatus != from {
		return nil, fmt.Errorf("%w: financial %s -> %s", ErrInvalidTransition, load.FinancialStatus, to)
	}
	if err := s.loads.UpdateFinancialStatus(ctx, loadID, to); err != nil {
		return nil, err
	}
	load.FinancialStatus = to
	return load, nil
}
