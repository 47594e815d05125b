package tickets

import (
	"context"
)

type Service interface {
	ListMyTickets(ctx context.Context, identityKey string) ([]OwnedTicket, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListMyTickets(ctx context.Context, identityKey string) ([]OwnedTicket, error) {
	return s.repo.ListByIdentityKey(ctx, identityKey)
}
