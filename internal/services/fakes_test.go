package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"consoul-backend/internal/models"
)

// fakeUserStore is an in-memory UserStore mirroring the repository's
// semantics, including the both-directions partner lookup and the
// all-or-nothing mutual pairing.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) add(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = cloneUser(user)
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.add(user)
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(user), nil
}

func (s *fakeUserStore) GetByCode(_ context.Context, code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Code == code {
			return cloneUser(user), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) PartnerOf(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if user.PartnerID != nil {
		if partner, ok := s.users[*user.PartnerID]; ok {
			return cloneUser(partner), nil
		}
	}
	for _, other := range s.users {
		if other.PartnerID != nil && *other.PartnerID == userID {
			return cloneUser(other), nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) CreateMutualPair(_ context.Context, aID, bID string) error {
	if aID == bID {
		return models.ErrSelfPair
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, okA := s.users[aID]
	b, okB := s.users[bID]
	if !okA || !okB {
		return models.ErrNotFound
	}
	if a.PartnerID != nil || b.PartnerID != nil {
		return models.ErrAlreadyPaired
	}
	for _, other := range s.users {
		if other.PartnerID != nil && (*other.PartnerID == aID || *other.PartnerID == bID) {
			return models.ErrAlreadyPaired
		}
	}

	aRef, bRef := aID, bID
	a.PartnerID = &bRef
	b.PartnerID = &aRef
	return nil
}

func (s *fakeUserStore) Unpair(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == userID || (user.PartnerID != nil && *user.PartnerID == userID) {
			user.PartnerID = nil
		}
	}
	return nil
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	if user.PartnerID != nil {
		id := *user.PartnerID
		clone.PartnerID = &id
	}
	return &clone
}

// fakeRoomStore is an in-memory RoomStore. Mutate applies fn to a copy under
// the store lock and only persists when fn reports a change, matching the
// repository's transactional behavior.
type fakeRoomStore struct {
	mu    sync.Mutex
	rooms map[string]*models.Room
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*models.Room)}
}

func (s *fakeRoomStore) Create(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *fakeRoomStore) GetByID(_ context.Context, id string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneRoom(room), nil
}

func (s *fakeRoomStore) ListByUser(_ context.Context, userID string) ([]*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []*models.Room
	for _, room := range s.rooms {
		if room.UserAID == userID || room.UserBID == userID {
			rooms = append(rooms, cloneRoom(room))
		}
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (s *fakeRoomStore) ListStaleIDs(_ context.Context, cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, room := range s.rooms {
		if room.Status == models.StatusActive &&
			room.LastActivityAt != nil && room.LastActivityAt.Before(cutoff) {
			ids = append(ids, room.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *fakeRoomStore) Mutate(_ context.Context, id string, fn func(*models.Room) (bool, error)) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	working := cloneRoom(room)
	changed, err := fn(working)
	if err != nil {
		return nil, err
	}
	if changed {
		s.rooms[id] = cloneRoom(working)
	}
	return working, nil
}

func cloneRoom(room *models.Room) *models.Room {
	clone := *room
	clone.TimerStartedAt = cloneTime(room.TimerStartedAt)
	clone.StartedAt = cloneTime(room.StartedAt)
	clone.EndedAt = cloneTime(room.EndedAt)
	clone.LastActivityAt = cloneTime(room.LastActivityAt)
	if room.UserAEmotion != nil {
		e := *room.UserAEmotion
		clone.UserAEmotion = &e
	}
	if room.UserBEmotion != nil {
		e := *room.UserBEmotion
		clone.UserBEmotion = &e
	}
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
