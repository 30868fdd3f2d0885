package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
)

type LoadRepository struct {
	db *gorm.DB
}

func NewLoadRepository(db *gorm.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

func (r *LoadRepository) Create(ctx context.Context, load *model.Load) error {
	if load.ID == uuid.Nil {
		load.ID = uuid.New()
	}
	if load.Attributes == nil {
		load.Attributes = model.Attributes{}
	}
	return r.db.WithContext(ctx).Create(load).Error
}

func (r *LoadRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Load, error) {
	var load model.Load
	if err := r.db.WithContext(ctx).First(&load, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &load, nil
}

// TransitionStatus updates the load's status and appends the history
// row in a single transaction. A status change without its audit row,
// or the reverse, cannot be observed.
func (r *LoadRepository) TransitionStatus(ctx context.Context, load *model.Load, history *model.LoadStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Load{}).
			Where("id = ?", load.ID).
			Updates(map[string]any{
				"status":            load.Status,
				"attributes":        load.Attributes,
				"gross_weight_tons": load.GrossWeightTons,
				"tare_weight_tons":  load.TareWeightTons,
				"net_weight_tons":   load.NetWeightTons,
				"dispatch_time":     load.DispatchTime,
				"arrival_time":      load.ArrivalTime,
				"disposal_time":     load.DisposalTime,
				"updated_at":        time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		if history.ID == uuid.Nil {
			history.ID = uuid.New()
		}
		return tx.Create(history).Error
	})
}

// SaveReadings persists the attributes bag and any weights promoted
// out of it, without a status change.
func (r *LoadRepository) SaveReadings(ctx context.Context, load *model.Load) error {
	return r.db.WithContext(ctx).Model(&model.Load{}).
		Where("id = ?", load.ID).
		Updates(map[string]any{
			"attributes":        load.Attributes,
			"gross_weight_tons": load.GrossWeightTons,
			"tare_weight_tons":  load.TareWeightTons,
			"net_weight_tons":   load.NetWeightTons,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// SaveAssignment persists planner-owned references.
func (r *LoadRepository) SaveAssignment(ctx context.Context, load *model.Load) error {
	return r.db.WithContext(ctx).Model(&model.Load{}).
		Where("id = ?", load.ID).
		Updates(map[string]any{
			"contractor_id":           load.ContractorID,
			"vehicle_id":              load.VehicleID,
			"driver_id":               load.DriverID,
			"vehicle_class":           load.VehicleClass,
			"destination_site_id":     load.DestinationSiteID,
			"destination_plant_id":    load.DestinationPlantID,
			"destination_landfill_id": load.DestinationLandfillID,
			"scheduled_date":          load.ScheduledDate,
			"updated_at":              time.Now().UTC(),
		}).Error
}

// SaveCost persists the load's financial record and advances the
// financial axis to CALCULATED in one transaction. An existing record
// for the load is replaced, which keeps recomputation inside an open
// cycle idempotent.
func (r *LoadRepository) SaveCost(ctx context.Context, cost *model.LoadCost) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("load_id = ?", cost.LoadID).Delete(&model.LoadCost{}).Error; err != nil {
			return err
		}
		if cost.ID == uuid.Nil {
			cost.ID = uuid.New()
		}
		if err := tx.Create(cost).Error; err != nil {
			return err
		}
		return tx.Model(&model.Load{}).
			Where("id = ?", cost.LoadID).
			Updates(map[string]any{
				"financial_status": model.FinancialStatusCalculated,
				"updated_at":       time.Now().UTC(),
			}).Error
	})
}

func (r *LoadRepository) GetCost(ctx context.Context, loadID uuid.UUID) (*model.LoadCost, error) {
	var cost model.LoadCost
	if err := r.db.WithContext(ctx).First(&cost, "load_id = ?", loadID).Error; err != nil {
		return nil, err
	}
	return &cost, nil
}

func (r *LoadRepository) UpdateFinancialStatus(ctx context.Context, loadID uuid.UUID, status model.FinancialStatus) error {
	return r.db.WithContext(ctx).Model(&model.Load{}).
		Where("id = ?", loadID).
		Updates(map[string]any{
			"financial_status": status,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *LoadRepository) History(ctx context.Context, loadID uuid.UUID) ([]model.LoadStatusHistory, error) {
	var rows []model.LoadStatusHistory
	err := r.db.WithContext(ctx).
		Where("load_id = ?", loadID).
		Order("occurred_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LoadRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]model.Load, error) {
	var loads []model.Load
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&loads).Error
	if err != nil {
		return nil, err
	}
	return loads, nil
}

// ListUncostedInWindow returns completed loads scheduled inside
// [start, end) whose financial axis is still PENDING. The cycle
// manager surfaces these before a close.
func (r *LoadRepository) ListUncostedInWindow(ctx context.Context, start, end time.Time) ([]model.Load, error) {
	var loads []model.Load
	err := r.db.WithContext(ctx).
		Where("status = ?", model.LoadStatusCompleted).
		Where("financial_status = ?", model.FinancialStatusPending).
		Where("scheduled_date >= ? AND scheduled_date < ?", start, end).
		Order("scheduled_date ASC").
		Find(&loads).Error
	if err != nil {
		return nil, err
	}
	return loads, nil
}

// ListCostsByCycle returns every financial record tagged with the
// cycle, for settlement rollups.
func (r *LoadRepository) ListCostsByCycle(ctx context.Context, cycleID uuid.UUID) ([]model.LoadCost, error) {
	var costs []model.LoadCost
	err := r.db.WithContext(ctx).
		Where("billing_cycle_id = ?", cycleID).
		Find(&costs).Error
	if err != nil {
		return nil, err
	}
	return costs, nil
}
