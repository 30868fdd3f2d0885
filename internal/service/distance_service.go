package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tmedina/wasteops-billing/internal/model"
	"github.com/tmedina/wasteops-billing/internal/repository"
)

// DistanceService resolves route distances against the administrative
// distance matrix. Missing routes are reported, not inferred: the fix
// is an operator adding the edge, not a retry.
type DistanceService struct {
	distances *repository.DistanceRepository
}

func NewDistanceService(distances *repository.DistanceRepository) *DistanceService {
	return &DistanceService{distances: distances}
}

// ResolveDistance returns the configured distance in km for one
// segment. Relay segments (intermediate hops of a consolidated trip)
// and direct routes are distinct edges for the same endpoints.
func (s *DistanceService) ResolveDistance(ctx context.Context, origin uuid.UUID, dest model.Destination, relaySegment bool) (float64, error) {
	if !dest.Type.IsValid() {
		return 0, fmt.Errorf("%w: unknown destination type %q", ErrInvalidInput, dest.Type)
	}
	edge, err := s.distances.GetEdge(ctx, origin, dest)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: %s -> %s (%s)", ErrRouteNotFound, origin, dest.ID, dest.Type)
		}
		return 0, err
	}
	if edge.IsRelaySegment != relaySegment {
		return 0, fmt.Errorf("%w: %s -> %s (%s) exists but relay flag mismatches",
			ErrRouteNotFound, origin, dest.ID, dest.Type)
	}
	return edge.DistanceKM, nil
}

// UpsertEdge creates or replaces one edge of the matrix.
func (s *DistanceService) UpsertEdge(ctx context.Context, edge *model.DistanceEdge) error {
	if !edge.DestinationType.IsValid() {
		return fmt.Errorf("%w: unknown destination type %q", ErrInvalidInput, edge.DestinationType)
	}
	if edge.DistanceKM <= 0 {
		return fmt.Errorf("%w: distance must be positive", ErrInvalidInput)
	}
	return s.distances.Upsert(ctx, edge)
}

func (s *DistanceService) RoutesFrom(ctx context.Context, origin uuid.UUID) ([]model.DistanceEdge, error) {
	return s.distances.ListFromOrigin(ctx, origin)
}
