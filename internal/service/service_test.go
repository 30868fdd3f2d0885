package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tmedina/wasteops-billing/internal/model"
	"github.com/tmedina/wasteops-billing/internal/repository"
)

type fixture struct {
	db        *gorm.DB
	loadRepo  *repository.LoadRepository
	cycleRepo *repository.CycleRepository
	lifecycle *LifecycleService
	tariffs   *TariffService
	distances *DistanceService
	costs     *CostService
	cycles    *CycleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Load{},
		&model.LoadStatusHistory{},
		&model.ContractorTariff{},
		&model.ClientTariff{},
		&model.DisposalSiteTariff{},
		&model.DistanceEdge{},
		&model.BillingCycle{},
		&model.LoadCost{},
	))

	log := zerolog.Nop()
	loadRepo := repository.NewLoadRepository(db)
	cycleRepo := repository.NewCycleRepository(db)
	tariffs := NewTariffService(repository.NewTariffRepository(db))
	distances := NewDistanceService(repository.NewDistanceRepository(db))

	return &fixture{
		db:        db,
		loadRepo:  loadRepo,
		cycleRepo: cycleRepo,
		lifecycle: NewLifecycleService(loadRepo, log),
		tariffs:   tariffs,
		distances: distances,
		costs:     NewCostService(loadRepo, cycleRepo, tariffs, distances, log),
		cycles:    NewCycleService(cycleRepo, loadRepo, log),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func planner() model.Principal {
	return model.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: "planner"}
}

func (f *fixture) openCycle(t *testing.T, code string, start, end time.Time, ufValue, fuelPrice string) *model.BillingCycle {
	t.Helper()
	cycle, err := f.cycles.OpenCycle(context.Background(), OpenCycleInput{
		Code:       code,
		CycleStart: start,
		CycleEnd:   end,
		UFValue:    decimal.RequireFromString(ufValue),
		FuelPrice:  decimal.RequireFromString(fuelPrice),
	})
	require.NoError(t, err)
	return cycle
}

func (f *fixture) insertContractorTariff(t *testing.T, contractorID uuid.UUID, rate string, minWeight float64, baseFuel string, effective time.Time) *model.ContractorTariff {
	t.Helper()
	tariff := &model.ContractorTariff{
		ContractorID:        contractorID,
		VehicleClass:        model.VehicleBatea,
		BaseRateUF:          decimal.RequireFromString(rate),
		MinWeightGuaranteed: minWeight,
		BaseFuelPrice:       decimal.RequireFromString(baseFuel),
	}
	require.NoError(t, f.tariffs.InsertContractorVersion(context.Background(), tariff, effective))
	return tariff
}

func (f *fixture) insertClientTariff(t *testing.T, clientID uuid.UUID, concept model.BillingConcept, rate string, minWeight float64, effective time.Time) {
	t.Helper()
	tariff := &model.ClientTariff{
		ClientID:            clientID,
		Concept:             concept,
		RateUF:              decimal.RequireFromString(rate),
		MinWeightGuaranteed: minWeight,
	}
	require.NoError(t, f.tariffs.InsertClientVersion(context.Background(), tariff, effective))
}

func (f *fixture) insertSiteTariff(t *testing.T, siteID uuid.UUID, rate string, minWeight float64, effective time.Time) {
	t.Helper()
	tariff := &model.DisposalSiteTariff{
		SiteID:              siteID,
		RateUF:              decimal.RequireFromString(rate),
		MinWeightGuaranteed: minWeight,
	}
	require.NoError(t, f.tariffs.InsertDisposalSiteVersion(context.Background(), tariff, effective))
}

func (f *fixture) upsertEdge(t *testing.T, origin uuid.UUID, dest model.Destination, km float64, relay bool) {
	t.Helper()
	require.NoError(t, f.distances.UpsertEdge(context.Background(), &model.DistanceEdge{
		OriginFacilityID: origin,
		DestinationID:    dest.ID,
		DestinationType:  dest.Type,
		DistanceKM:       km,
		IsRelaySegment:   relay,
	}))
}

type completedLoadOpts struct {
	origin     uuid.UUID
	client     uuid.UUID
	contractor uuid.UUID
	dest       model.Destination
	netWeight  float64
	scheduled  time.Time
	tripID     *uuid.UUID
	segment    model.SegmentType
	status     model.LoadStatus
}

// seedLoad writes a load directly at the given operational status,
// bypassing the lifecycle service. Cost and cycle tests only care about
// the end state.
func (f *fixture) seedLoad(t *testing.T, opts completedLoadOpts) *model.Load {
	t.Helper()
	if opts.status == "" {
		opts.status = model.LoadStatusCompleted
	}
	if opts.segment == "" {
		opts.segment = model.SegmentDirect
	}
	class := string(model.VehicleBatea)
	load := &model.Load{
		OriginFacilityID: opts.origin,
		ClientID:         opts.client,
		ContractorID:     &opts.contractor,
		VehicleClass:     &class,
		Status:           opts.status,
		FinancialStatus:  model.FinancialStatusPending,
		TripID:           opts.tripID,
		SegmentType:      opts.segment,
		ScheduledDate:    &opts.scheduled,
	}
	if opts.netWeight > 0 {
		load.NetWeightTons = &opts.netWeight
	}
	switch opts.dest.Type {
	case model.DestinationSite:
		load.DestinationSiteID = &opts.dest.ID
	case model.DestinationFacility:
		load.DestinationPlantID = &opts.dest.ID
	case model.DestinationLandfill:
		load.DestinationLandfillID = &opts.dest.ID
	}
	require.NoError(t, f.loadRepo.Create(context.Background(), load))
	return load
}
