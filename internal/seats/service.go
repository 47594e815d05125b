package seats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gatepass/pkg/cache"
)

// EventResolver maps an event slug to its ID (provided by the events
// package, narrowed here to avoid a circular dependency).
type EventResolver interface {
	ResolveActiveID(ctx context.Context, slug string) (uuid.UUID, error)
}

type Service interface {
	CreateSeatGroup(ctx context.Context, req CreateSeatGroupRequest) (*SeatGroupResponse, error)
	ListGroupsByEventSlug(ctx context.Context, slug string) ([]SeatGroupResponse, error)
	ListSeatsByGroup(ctx context.Context, groupID uuid.UUID) ([]SeatResponse, error)

	// InvalidateSeatMap drops the cached availability for an event after a
	// seat mutation commits.
	InvalidateSeatMap(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo     Repository
	eventRes EventResolver
	cache    cache.Service
	cacheTTL time.Duration
}

func NewService(repo Repository, eventRes EventResolver, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		eventRes: eventRes,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

func seatMapCacheKey(eventID uuid.UUID) string {
	return "gatepass:seatmap:" + eventID.String()
}

func (s *service) CreateSeatGroup(ctx context.Context, req CreateSeatGroupRequest) (*SeatGroupResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	if len(req.Rows) > 0 && req.Count > 0 {
		return nil, fmt.Errorf("rows and count are mutually exclusive")
	}

	groupType := GroupTypeTable
	if req.Type != "" {
		groupType = SeatGroupType(req.Type)
	}

	group := &SeatGroup{
		EventID:   eventID,
		Code:      req.Code,
		Name:      req.Name,
		Type:      groupType,
		BasePrice: req.BasePrice,
		Capacity:  req.Capacity,
	}
	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create seat group: %w", err)
	}

	seatRows := generateSeats(group, req)
	if err := s.repo.CreateSeats(ctx, seatRows); err != nil {
		return nil, fmt.Errorf("failed to generate seats: %w", err)
	}

	s.InvalidateSeatMap(ctx, eventID)

	return &SeatGroupResponse{
		ID:        group.ID.String(),
		Code:      group.Code,
		Name:      group.Name,
		Type:      string(group.Type),
		BasePrice: group.BasePrice,
		Capacity:  group.Capacity,
		FreeSeats: int64(len(seatRows)),
	}, nil
}

// generateSeats builds the inventory rows for a new group: numbered seats per
// row for sectors, or a flat run of unnumbered seats for tables and zones.
func generateSeats(group *SeatGroup, req CreateSeatGroupRequest) []Seat {
	var seatRows []Seat

	switch {
	case len(req.Rows) > 0:
		perRow := req.SeatsPerRow
		if perRow == 0 {
			perRow = 1
		}
		for _, row := range req.Rows {
			for n := 1; n <= perRow; n++ {
				num := n
				seatRows = append(seatRows, Seat{
					EventID:    group.EventID,
					GroupID:    group.ID,
					Row:        row,
					SeatNumber: &num,
					Price:      group.BasePrice,
					Status:     StatusFree,
				})
			}
		}
	case req.Count > 0:
		for n := 1; n <= req.Count; n++ {
			num := n
			seatRows = append(seatRows, Seat{
				EventID:    group.EventID,
				GroupID:    group.ID,
				SeatNumber: &num,
				Price:      group.BasePrice,
				Status:     StatusFree,
			})
		}
	}

	return seatRows
}

func (s *service) ListGroupsByEventSlug(ctx context.Context, slug string) ([]SeatGroupResponse, error) {
	eventID, err := s.eventRes.ResolveActiveID(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached []SeatGroupResponse
		if err := s.cache.Get(ctx, seatMapCacheKey(eventID), &cached); err == nil {
			return cached, nil
		}
	}

	groups, err := s.repo.ListGroupsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]SeatGroupResponse, 0, len(groups))
	for i := range groups {
		free, err := s.repo.CountFreeByGroup(ctx, groups[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count free seats: %w", err)
		}
		responses = append(responses, SeatGroupResponse{
			ID:        groups[i].ID.String(),
			Code:      groups[i].Code,
			Name:      groups[i].Name,
			Type:      string(groups[i].Type),
			BasePrice: groups[i].BasePrice,
			Capacity:  groups[i].Capacity,
			FreeSeats: free,
		})
	}

	if s.cache != nil {
		// Short TTL; availability goes stale quickly during on-sale
		_ = s.cache.Set(ctx, seatMapCacheKey(eventID), responses, s.cacheTTL)
	}
	return responses, nil
}

func (s *service) ListSeatsByGroup(ctx context.Context, groupID uuid.UUID) ([]SeatResponse, error) {
	if _, err := s.repo.GetGroupByID(ctx, groupID); err != nil {
		return nil, err
	}

	seatRows, err := s.repo.ListSeatsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	responses := make([]SeatResponse, 0, len(seatRows))
	for i := range seatRows {
		responses = append(responses, seatRows[i].ToResponse())
	}
	return responses, nil
}

func (s *service) InvalidateSeatMap(ctx context.Context, eventID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, seatMapCacheKey(eventID))
	}
}
