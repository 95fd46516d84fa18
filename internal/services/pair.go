package services

import (
	"context"
	"fmt"

	"consoul-backend/internal/models"
)

// PairService maintains the mutual partner relation between users
type PairService struct {
	userStore UserStore
}

// NewPairService creates a new pair service
func NewPairService(userStore UserStore) *PairService {
	return &PairService{userStore: userStore}
}

// CreatePairByCode pairs the user with the owner of partnerCode. Both sides
// of the link are committed atomically by the store.
func (s *PairService) CreatePairByCode(ctx context.Context, userID, partnerCode string) (*models.User, error) {
	if len(partnerCode) != codeLength {
		return nil, models.ErrValidationFailed
	}

	partner, err := s.userStore.GetByCode(ctx, partnerCode)
	if err != nil {
		return nil, fmt.Errorf("partner lookup failed: %w", err)
	}

	if err := s.userStore.CreateMutualPair(ctx, userID, partner.ID); err != nil {
		return nil, err
	}

	return partner, nil
}

// CreateMutualPair pairs two users by id
func (s *PairService) CreateMutualPair(ctx context.Context, aID, bID string) error {
	if aID == bID {
		return models.ErrSelfPair
	}
	return s.userStore.CreateMutualPair(ctx, aID, bID)
}

// Unpair dissolves whichever partnership the user participates in.
// Idempotent when the user has no partner.
func (s *PairService) Unpair(ctx context.Context, userID string) error {
	return s.userStore.Unpair(ctx, userID)
}

// PartnerOf returns the user's partner, or nil when unpaired
func (s *PairService) PartnerOf(ctx context.Context, userID string) (*models.User, error) {
	return s.userStore.PartnerOf(ctx, userID)
}

// IsPaired reports whether the user currently has a partner
func (s *PairService) IsPaired(ctx context.Context, userID string) (bool, error) {
	partner, err := s.userStore.PartnerOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return partner != nil, nil
}
