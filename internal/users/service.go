package users

import (
	"context"

	"gorm.io/gorm"
)

// Service is the canonical identity-resolution interface. Every component
// that needs to map an external identity key to a profile goes through it;
// there is exactly one lookup key.
type Service interface {
	ResolveByIdentityKey(ctx context.Context, identityKey string) (*UserProfile, error)
	UpsertByIdentityKeyTx(tx *gorm.DB, identity Identity) (*UserProfile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ResolveByIdentityKey(ctx context.Context, identityKey string) (*UserProfile, error) {
	return s.repo.GetByIdentityKey(ctx, identityKey)
}

func (s *service) UpsertByIdentityKeyTx(tx *gorm.DB, identity Identity) (*UserProfile, error) {
	return s.repo.UpsertByIdentityKeyTx(tx, identity)
}
