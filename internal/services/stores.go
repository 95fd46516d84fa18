package services

import (
	"context"
	"time"

	"consoul-backend/internal/models"
)

// UserStore is the storage surface the services need for users and the
// partner link. Implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByCode(ctx context.Context, code string) (*models.User, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	PartnerOf(ctx context.Context, userID string) (*models.User, error)
	CreateMutualPair(ctx context.Context, aID, bID string) error
	Unpair(ctx context.Context, userID string) error
}

// RoomStore is the storage surface the room service needs. Mutate must run
// fn under a per-room lock and persist the result only when fn reports a
// change, all-or-nothing. Implemented by repository.RoomRepository.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Room, error)
	ListStaleIDs(ctx context.Context, cutoff time.Time) ([]string, error)
	Mutate(ctx context.Context, id string, fn func(*models.Room) (bool, error)) (*models.Room, error)
}
