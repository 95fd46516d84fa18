package services

import (
	"context"
	"fmt"
	"time"

	"consoul-backend/internal/models"
)

// RoomService owns the room lifecycle: status transitions, timer accounting,
// hearts and emotions. Every mutation runs inside RoomStore.Mutate so the
// read-validate-write step is atomic per room.
type RoomService struct {
	roomStore  RoomStore
	userStore  UserStore
	staleAfter time.Duration
	now        func() time.Time
}

// NewRoomService creates a new room service
func NewRoomService(roomStore RoomStore, userStore UserStore, staleAfter time.Duration) *RoomService {
	if staleAfter <= 0 {
		staleAfter = models.DefaultStaleAfter
	}
	return &RoomService{
		roomStore:  roomStore,
		userStore:  userStore,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// EmotionView is an emotion tag with its display glyph
type EmotionView struct {
	Tag   models.Emotion `json:"tag"`
	Emoji string         `json:"emoji"`
}

// RoomStatus is the client-facing snapshot of a room, assembled from the
// caller's perspective.
type RoomStatus struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Status         models.Status `json:"status"`
	TimerRunning   bool          `json:"timer_running"`
	ElapsedTime    string        `json:"elapsed_time"`
	ElapsedSeconds int           `json:"elapsed_seconds"`
	HeartCount     int           `json:"heart_count"`
	LastActivityAt string        `json:"last_activity_at"`
	StartedAt      string        `json:"started_at"`
	EndedAt        string        `json:"ended_at"`
	UserAEmotion   *EmotionView  `json:"user_a_emotion"`
	UserBEmotion   *EmotionView  `json:"user_b_emotion"`
	MyEmotion      *EmotionView  `json:"my_emotion"`
	PartnerEmotion *EmotionView  `json:"partner_emotion"`
}

// CreateRoom creates a waiting room between the initiator and their partner
func (s *RoomService) CreateRoom(ctx context.Context, userID, title string) (*RoomStatus, error) {
	partner, err := s.userStore.PartnerOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("partner lookup failed: %w", err)
	}
	if partner == nil {
		return nil, models.ErrNotPaired
	}

	room, err := models.NewRoom(title, userID, partner.ID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.roomStore.Create(ctx, room); err != nil {
		return nil, err
	}
	return s.project(room, userID), nil
}

// ListRooms returns the caller's rooms, most recent first
func (s *RoomService) ListRooms(ctx context.Context, userID string) ([]*RoomStatus, error) {
	rooms, err := s.roomStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	statuses := make([]*RoomStatus, 0, len(rooms))
	for _, room := range rooms {
		statuses = append(statuses, s.project(room, userID))
	}
	return statuses, nil
}

// Status returns the current snapshot of a room for a participant
func (s *RoomService) Status(ctx context.Context, roomID, userID string) (*RoomStatus, error) {
	room, err := s.roomStore.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Participant(userID) {
		return nil, models.ErrNotAuthorized
	}
	return s.project(room, userID), nil
}

// Start moves a waiting room to active and starts its timer
func (s *RoomService) Start(ctx context.Context, roomID, userID string) (*RoomStatus, error) {
	return s.mutate(ctx, roomID, userID, func(room *models.Room) error {
		return room.Start(s.now())
	})
}

// ResumeTimer restarts a paused timer
func (s *RoomService) ResumeTimer(ctx context.Context, roomID, userID string) (*RoomStatus, error) {
	return s.mutate(ctx, roomID, userID, func(room *models.Room) error {
		return room.StartTimer(s.now())
	})
}

// PauseTimer banks the running interval and stops the timer
func (s *RoomService) PauseTimer(ctx context.Context, roomID, userID string) (*RoomStatus, error) {
	return s.mutate(ctx, roomID, userID, func(room *models.Room) error {
		return room.PauseTimer(s.now())
	})
}

// Complete ends the room, banking the timer first if it is running
func (s *RoomService) Complete(ctx context.Context, roomID, userID string) (*RoomStatus, error) {
	return s.mutate(ctx, roomID, userID, func(room *models.Room) error {
		return room.Complete(s.now())
	})
}

// AddHearts increments the heart counter by count
func (s *RoomService) AddHearts(ctx context.Context, roomID, userID string, count int) (*RoomStatus, error) {
	return s.mutate(ctx, roomID, userID, func(room *models.Room) error {
		return room.AddHearts(count, s.now())
	})
}

// UpdateActivity records a heartbeat from a participant
func (s *RoomService) UpdateActivity(ctx context.Context, roomID, userID string) (*RoomStatus, error) {
	return s.mutate(ctx, roomID, userID, func(room *models.Room) error {
		room.UpdateActivity(s.now())
		return nil
	})
}

// SetEmotion records the caller's current emotion
func (s *RoomService) SetEmotion(ctx context.Context, roomID, userID string, emotion models.Emotion) (*RoomStatus, error) {
	return s.mutate(ctx, roomID, userID, func(room *models.Room) error {
		return room.SetEmotion(userID, emotion, s.now())
	})
}

// AutoCompleteIfStale completes the room if it is active and stale, reporting
// whether it did. The check and transition share one room lock, so two sweep
// passes cannot both complete the same room.
func (s *RoomService) AutoCompleteIfStale(ctx context.Context, roomID string) (bool, error) {
	completed := false
	_, err := s.roomStore.Mutate(ctx, roomID, func(room *models.Room) (bool, error) {
		completed = room.AutoCompleteIfStale(s.now(), s.staleAfter)
		return completed, nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// StaleAfter returns the inactivity threshold in use
func (s *RoomService) StaleAfter() time.Duration {
	return s.staleAfter
}

func (s *RoomService) mutate(ctx context.Context, roomID, userID string, fn func(*models.Room) error) (*RoomStatus, error) {
	room, err := s.roomStore.Mutate(ctx, roomID, func(room *models.Room) (bool, error) {
		if !room.Participant(userID) {
			return false, models.ErrNotAuthorized
		}
		if err := fn(room); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.project(room, userID), nil
}

func (s *RoomService) project(room *models.Room, userID string) *RoomStatus {
	now := s.now()
	status := &RoomStatus{
		ID:             room.ID,
		Title:          room.Title,
		Status:         room.Status,
		TimerRunning:   room.TimerRunning,
		ElapsedTime:    room.ElapsedTimeFormatted(now),
		ElapsedSeconds: room.CurrentElapsedSeconds(now),
		HeartCount:     room.HeartCount,
		LastActivityAt: formatTime(room.LastActivityAt, "15:04:05"),
		StartedAt:      formatTime(room.StartedAt, "15:04"),
		EndedAt:        formatTime(room.EndedAt, "2006/01/02 15:04"),
		UserAEmotion:   emotionView(room.UserAEmotion),
		UserBEmotion:   emotionView(room.UserBEmotion),
		MyEmotion:      emotionView(room.EmotionFor(userID)),
	}
	if partnerID, ok := room.PartnerFor(userID); ok {
		status.PartnerEmotion = emotionView(room.EmotionFor(partnerID))
	}
	return status
}

func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

func emotionView(e *models.Emotion) *EmotionView {
	if e == nil {
		return nil
	}
	return &EmotionView{Tag: *e, Emoji: e.Emoji()}
}
