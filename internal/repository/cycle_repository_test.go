package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
)

func testCycle(code string) *model.BillingCycle {
	return &model.BillingCycle{
		Code:       code,
		CycleStart: date(2025, time.March, 1),
		CycleEnd:   date(2025, time.April, 1),
		UFValue:    decimal.RequireFromString("39000"),
		FuelPrice:  decimal.RequireFromString("880"),
	}
}

func TestCycleRepositorySingleOpenCycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	first := testCycle("2025-03")
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, testCycle("2025-04"))
	require.ErrorIs(t, err, ErrCycleAlreadyOpen)

	open, err := repo.GetOpen(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, open.ID)

	require.NoError(t, repo.Close(ctx, first.ID))

	_, err = repo.GetOpen(ctx)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Create(ctx, testCycle("2025-04")))
}

func TestCycleRepositoryCloseSetsTimestamp(t *testing.T) {
	db := newTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	cycle := testCycle("2025-03")
	require.NoError(t, repo.Create(ctx, cycle))
	require.NoError(t, repo.Close(ctx, cycle.ID))

	got, err := repo.GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	require.True(t, got.IsClosed)
	require.NotNil(t, got.ClosedAt)
}
