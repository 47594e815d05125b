package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gatepass/pkg/cache"
)

// ConfirmedCounter reports the number of CONFIRMED registrations for an
// event (provided by the registrations package, narrowed here to avoid a
// circular dependency). The count is always recomputed from live rows.
type ConfirmedCounter interface {
	CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type Service interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventBySlug(ctx context.Context, slug string) (*EventResponse, error)
	ListActiveEvents(ctx context.Context, query EventListQuery) ([]EventResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeactivateEvent(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      Repository
	confirmed ConfirmedCounter
	cache     cache.Service
	cacheTTL  time.Duration
}

func NewService(repo Repository, confirmed ConfirmedCounter, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:      repo,
		confirmed: confirmed,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
	}
}

func eventCacheKey(slug string) string {
	return "gatepass:event:" + slug
}

func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	visibility := VisibilityPublic
	if req.Visibility != "" {
		visibility = Visibility(req.Visibility)
	}

	event := &Event{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		VenueName:   req.VenueName,
		Address:     req.Address,
		Visibility:  visibility,
		OrganizerID: &organizerID,
		Capacity:    req.Capacity,
		IsPaid:      req.IsPaid,
		BasePrice:   req.BasePrice,
		IsActive:    true,
	}

	if req.CategorySlug != "" {
		category, err := s.repo.GetCategoryBySlug(ctx, req.CategorySlug)
		if err != nil {
			return nil, err
		}
		event.CategoryID = &category.ID
		event.Category = category
	}

	if event.IsPaid && event.BasePrice == nil {
		return nil, fmt.Errorf("a paid event requires a base_price")
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	resp := event.ToResponse(0)
	return &resp, nil
}

func (s *service) GetEventBySlug(ctx context.Context, slug string) (*EventResponse, error) {
	if s.cache != nil {
		var cached EventResponse
		if err := s.cache.Get(ctx, eventCacheKey(slug), &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, ErrEventNotFound
	}

	count, err := s.confirmed.CountConfirmedByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed registrations: %w", err)
	}

	resp := event.ToResponse(count)
	if s.cache != nil {
		// Best effort; a cold cache only costs a recount
		_ = s.cache.Set(ctx, eventCacheKey(slug), resp, s.cacheTTL)
	}
	return &resp, nil
}

func (s *service) ListActiveEvents(ctx context.Context, query EventListQuery) ([]EventResponse, error) {
	eventList, err := s.repo.ListActive(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]EventResponse, 0, len(eventList))
	for i := range eventList {
		count, err := s.confirmed.CountConfirmedByEvent(ctx, eventList[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count confirmed registrations: %w", err)
		}
		responses = append(responses, eventList[i].ToResponse(count))
	}
	return responses, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartAt != nil {
		updates["start_at"] = *req.StartAt
	}
	if req.EndAt != nil {
		updates["end_at"] = *req.EndAt
	}
	if req.VenueName != nil {
		updates["venue_name"] = *req.VenueName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Visibility != nil {
		updates["visibility"] = *req.Visibility
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	event, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, event.Slug)

	count, err := s.confirmed.CountConfirmedByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	resp := event.ToResponse(count)
	return &resp, nil
}

func (s *service) DeactivateEvent(ctx context.Context, id uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, event.Slug)
	return nil
}

func (s *service) invalidate(ctx context.Context, slug string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, eventCacheKey(slug))
	}
}
