package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
)

type DistanceRepository struct {
	db *gorm.DB
}

func NewDistanceRepository(db *gorm.DB) *DistanceRepository {
	return &DistanceRepository{db: db}
}

func (r *DistanceRepository) GetEdge(ctx context.Context, origin uuid.UUID, dest model.Destination) (*model.DistanceEdge, error) {
	var edge model.DistanceEdge
	err := r.db.WithContext(ctx).
		Where("origin_facility_id = ?", origin).
		Where("destination_id = ?", dest.ID).
		Where("destination_type = ?", dest.Type).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// Upsert replaces the edge for the (origin, destination, type) triple;
// routes are administrative data and carry no history.
func (r *DistanceRepository) Upsert(ctx context.Context, edge *model.DistanceEdge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DistanceEdge
		err := tx.
			Where("origin_facility_id = ?", edge.OriginFacilityID).
			Where("destination_id = ?", edge.DestinationID).
			Where("destination_type = ?", edge.DestinationType).
			First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Updates(map[string]any{
				"distance_km":      edge.DistanceKM,
				"is_relay_segment": edge.IsRelaySegment,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if edge.ID == uuid.Nil {
				edge.ID = uuid.New()
			}
			return tx.Create(edge).Error
		default:
			return err
		}
	})
}

func (r *DistanceRepository) ListFromOrigin(ctx context.Context, origin uuid.UUID) ([]model.DistanceEdge, error) {
	var edges []model.DistanceEdge
	err := r.db.WithContext(ctx).
		Where("origin_facility_id = ?", origin).
		Order("distance_km ASC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}
