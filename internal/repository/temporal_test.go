package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tmedina/wasteops-billing/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func contractorTariff(contractorID uuid.UUID, rate string) *model.ContractorTariff {
	return &model.ContractorTariff{
		ContractorID:  contractorID,
		VehicleClass:  model.VehicleBatea,
		BaseRateUF:    decimal.RequireFromString(rate),
		BaseFuelPrice: decimal.RequireFromString("800"),
	}
}

func TestTemporalStoreInsertVersionClosesOpenWindow(t *testing.T) {
	db := newTestDB(t)
	store := NewTemporalStore[model.ContractorTariff, *model.ContractorTariff](db)
	ctx := context.Background()
	contractorID := uuid.New()

	first := contractorTariff(contractorID, "0.0015")
	require.NoError(t, store.InsertVersion(ctx, first, date(2025, time.January, 1)))

	second := contractorTariff(contractorID, "0.0018")
	require.NoError(t, store.InsertVersion(ctx, second, date(2025, time.June, 1)))

	history, err := store.History(ctx, contractorTariff(contractorID, "0"))
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first: the open version, then the closed one.
	require.Nil(t, history[0].ValidTo)
	require.NotNil(t, history[1].ValidTo)
	require.True(t, history[1].ValidTo.Equal(date(2025, time.June, 1)))
}

func TestTemporalStoreRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	store := NewTemporalStore[model.ContractorTariff, *model.ContractorTariff](db)
	ctx := context.Background()
	contractorID := uuid.New()

	require.NoError(t, store.InsertVersion(ctx, contractorTariff(contractorID, "0.0015"), date(2025, time.June, 1)))

	err := store.InsertVersion(ctx, contractorTariff(contractorID, "0.0018"), date(2025, time.March, 1))
	require.ErrorIs(t, err, ErrOverlapViolation)

	err = store.InsertVersion(ctx, contractorTariff(contractorID, "0.0018"), date(2025, time.June, 1))
	require.ErrorIs(t, err, ErrOverlapViolation)

	history, err := store.History(ctx, contractorTariff(contractorID, "0"))
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestTemporalStoreResolveAsOf(t *testing.T) {
	db := newTestDB(t)
	store := NewTemporalStore[model.ContractorTariff, *model.ContractorTariff](db)
	ctx := context.Background()
	contractorID := uuid.New()

	require.NoError(t, store.InsertVersion(ctx, contractorTariff(contractorID, "0.0015"), date(2025, time.January, 1)))
	require.NoError(t, store.InsertVersion(ctx, contractorTariff(contractorID, "0.0018"), date(2025, time.June, 1)))

	probe := contractorTariff(contractorID, "0")

	got, err := store.ResolveAsOf(ctx, probe, date(2025, time.March, 15))
	require.NoError(t, err)
	require.Equal(t, "0.0015", got.BaseRateUF.String())

	got, err = store.ResolveAsOf(ctx, probe, date(2025, time.July, 1))
	require.NoError(t, err)
	require.Equal(t, "0.0018", got.BaseRateUF.String())

	// The boundary day belongs to the new version.
	got, err = store.ResolveAsOf(ctx, probe, date(2025, time.June, 1))
	require.NoError(t, err)
	require.Equal(t, "0.0018", got.BaseRateUF.String())

	_, err = store.ResolveAsOf(ctx, probe, date(2024, time.December, 1))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTemporalStoreSubjectsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	store := NewTemporalStore[model.ContractorTariff, *model.ContractorTariff](db)
	ctx := context.Background()

	first := uuid.New()
	other := uuid.New()
	require.NoError(t, store.InsertVersion(ctx, contractorTariff(first, "0.0015"), date(2025, time.January, 1)))
	require.NoError(t, store.InsertVersion(ctx, contractorTariff(other, "0.0020"), date(2025, time.January, 1)))

	got, err := store.ResolveAsOf(ctx, contractorTariff(other, "0"), date(2025, time.February, 1))
	require.NoError(t, err)
	require.Equal(t, "0.002", got.BaseRateUF.String())
}
