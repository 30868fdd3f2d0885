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

// CycleService manages proformas: opening a period with its frozen
// indicators and closing it for good.
type CycleService struct {
	cycles *repository.CycleRepository
	loads  *repository.LoadRepository
	log    zerolog.Logger
}

func NewCycleService(cycles *repository.CycleRepository, loads *repository.LoadRepository, log zerolog.Logger) *CycleService {
	return &CycleService{cycles: cycles, loads: loads, log: log}
}

type OpenCycleInput struct {
	Code       string
	CycleStart time.Time
	CycleEnd   time.Time
	UFValue    decimal.Decimal
	FuelPrice  decimal.Decimal
}

func (s *CycleService) OpenCycle(ctx context.Context, input OpenCycleInput) (*model.BillingCycle, error) {
	if input.Code == "" {
		return nil, fmt.Errorf("%w: cycle code is required", ErrInvalidInput)
	}
	if !input.CycleStart.Before(input.CycleEnd) {
		return nil, fmt.Errorf("%w: cycle_start must precede cycle_end", ErrInvalidInput)
	}
	if input.UFValue.Sign() <= 0 || input.FuelPrice.Sign() <= 0 {
		return nil, fmt.Errorf("%w: uf_value and fuel_price must be positive", ErrInvalidInput)
	}

	cycle := &model.BillingCycle{
		Code:       input.Code,
		CycleStart: input.CycleStart,
		CycleEnd:   input.CycleEnd,
		UFValue:    input.UFValue,
		FuelPrice:  input.FuelPrice,
	}
	if err := s.cycles.Create(ctx, cycle); err != nil {
		if errors.Is(err, repository.ErrCycleAlreadyOpen) {
			return nil, ErrCycleAlreadyOpen
		}
		return nil, err
	}
	s.log.Info().Str("cycle", cycle.Code).Msg("billing cycle opened")
	return cycle, nil
}

func (s *CycleService) CurrentOpen(ctx context.Context) (*model.BillingCycle, error) {
	cycle, err := s.cycles.GetOpen(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenCycle
		}
		return nil, err
	}
	return cycle, nil
}

// UncostedLoads lists completed loads scheduled inside the cycle's
// window that are still financially PENDING, so the planner can cost
// them before closing.
func (s *CycleService) UncostedLoads(ctx context.Context, cycleID uuid.UUID) ([]model.Load, error) {
	cycle, err := s.cycles.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
		}
		return nil, err
	}
	return s.loads.ListUncostedInWindow(ctx, cycle.CycleStart, cycle.CycleEnd)
}

// CloseCycleResult reports the outcome of a close. Closing with
// pending loads is allowed but never silent: their IDs come back and
// a warning is logged.
type CloseCycleResult struct {
	Settlement     model.CycleSettlement `json:"settlement"`
	PendingLoadIDs []uuid.UUID           `json:"pending_load_ids,omitempty"`
}

// CloseCycle finalizes the period. One-way: there is no reopen, and
// every cost computed against the cycle's indicators becomes
// immutable.
func (s *CycleService) CloseCycle(ctx context.Context, cycleID uuid.UUID) (*CloseCycleResult, error) {
	cycle, err := s.cycles.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
		}
		return nil, err
	}
	if cycle.IsClosed {
		return nil, fmt.Errorf("%w: cycle %s", ErrCycleClosed, cycle.Code)
	}

	pending, err := s.loads.ListUncostedInWindow(ctx, cycle.CycleStart, cycle.CycleEnd)
	if err != nil {
		return nil, err
	}
	pendingIDs := make([]uuid.UUID, 0, len(pending))
	for _, load := range pending {
		pendingIDs = append(pendingIDs, load.ID)
	}
	if len(pendingIDs) > 0 {
		s.log.Warn().
			Str("cycle", cycle.Code).
			Int("pending_loads", len(pendingIDs)).
			Msg("closing cycle with uncosted completed loads")
	}

	if err := s.cycles.Close(ctx, cycleID); err != nil {
		return nil, err
	}
	cycle.IsClosed = true
	now := time.Now().UTC()
	cycle.ClosedAt = &now

	settlement, err := s.settle(ctx, cycle)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("cycle", cycle.Code).
		Int("loads_costed", settlement.LoadsCosted).
		Str("total_cost_uf", settlement.TotalCostUF.String()).
		Msg("billing cycle closed")

	return &CloseCycleResult{Settlement: *settlement, PendingLoadIDs: pendingIDs}, nil
}

// Settlement summarizes a cycle's costed loads, converting to native
// currency at the cycle's UF value. This is the only place UF leaves
// the indexed unit.
func (s *CycleService) Settlement(ctx context.Context, cycleID uuid.UUID) (*model.CycleSettlement, error) {
	cycle, err := s.cycles.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
		}
		return nil, err
	}
	return s.settle(ctx, cycle)
}

func (s *CycleService) settle(ctx context.Context, cycle *model.BillingCycle) (*model.CycleSettlement, error) {
	costs, err := s.loads.ListCostsByCycle(ctx, cycle.ID)
	if err != nil {
		return nil, err
	}
	settlement := model.CycleSettlement{
		Cycle:          *cycle,
		TotalCostUF:    decimal.Zero,
		TotalRevenueUF: decimal.Zero,
	}
	for _, cost := range costs {
		settlement.LoadsCosted++
		settlement.TotalCostUF = settlement.TotalCostUF.Add(cost.TotalCostUF)
		settlement.TotalRevenueUF = settlement.TotalRevenueUF.Add(cost.ClientRevenueUF)
	}
	settlement.TotalCostCLP = settlement.TotalCostUF.Mul(cycle.UFValue)
	settlement.TotalRevenueCLP = settlement.TotalRevenueUF.Mul(cycle.UFValue)
	return &settlement, nil
}
