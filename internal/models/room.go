package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxTitleLength = 100

// DefaultStaleAfter is how long a room may sit without activity before the
// sweeper completes it.
const DefaultStaleAfter = 3 * time.Minute

// Status is the room lifecycle state. Transitions only move forward:
// waiting -> active -> completed. Pausing the timer does not change the
// status; "paused" stays a valid value but no operation here reaches it.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the recognized statuses
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Emotion is one of the closed set of mood tags a participant can signal.
type Emotion string

const (
	EmotionHappy    Emotion = "happy"
	EmotionSad      Emotion = "sad"
	EmotionAngry    Emotion = "angry"
	EmotionSleepy   Emotion = "sleepy"
	EmotionThinking Emotion = "thinking"
)

// Valid reports whether e is one of the recognized emotions
func (e Emotion) Valid() bool {
	switch e {
	case EmotionHappy, EmotionSad, EmotionAngry, EmotionSleepy, EmotionThinking:
		return true
	}
	return false
}

// Emoji returns the display glyph for the emotion
func (e Emotion) Emoji() string {
	switch e {
	case EmotionHappy:
		return "😊"
	case EmotionSad:
		return "😢"
	case EmotionAngry:
		return "😠"
	case EmotionSleepy:
		return "😴"
	case EmotionThinking:
		return "🤔"
	}
	return ""
}

// AvailableEmotions lists the recognized emotions in display order
func AvailableEmotions() []Emotion {
	return []Emotion{EmotionHappy, EmotionSad, EmotionAngry, EmotionSleepy, EmotionThinking}
}

// Room represents a shared activity between two paired users. The timer uses
// the banked-interval pattern: TimerSeconds holds time already accumulated,
// and TimerStartedAt marks the start of the currently running interval.
// TimerStartedAt is non-nil exactly when TimerRunning is true.
type Room struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         Status     `json:"status"`
	UserAID        string     `json:"user_a_id"`
	UserBID        string     `json:"user_b_id"`
	TimerSeconds   int        `json:"timer_seconds"`
	TimerRunning   bool       `json:"timer_running"`
	TimerStartedAt *time.Time `json:"timer_started_at,omitempty"`
	HeartCount     int        `json:"heart_count"`
	UserAEmotion   *Emotion   `json:"user_a_emotion,omitempty"`
	UserBEmotion   *Emotion   `json:"user_b_emotion,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewRoom creates a waiting room between two participants
func NewRoom(title, userAID, userBID string, now time.Time) (*Room, error) {
	if strings.TrimSpace(title) == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return nil, ErrValidationFailed
	}
	if userAID == userBID {
		return nil, ErrValidationFailed
	}
	return &Room{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    StatusWaiting,
		UserAID:   userAID,
		UserBID:   userBID,
		CreatedAt: now,
	}, nil
}

// Participant reports whether the user is one of the room's two participants
func (r *Room) Participant(userID string) bool {
	return r.UserAID == userID || r.UserBID == userID
}

// PartnerFor returns the other participant's id
func (r *Room) PartnerFor(userID string) (string, bool) {
	switch userID {
	case r.UserAID:
		return r.UserBID, true
	case r.UserBID:
		return r.UserAID, true
	}
	return "", false
}

// Completed reports whether the room has reached its terminal status
func (r *Room) Completed() bool {
	return r.Status == StatusCompleted
}

// Start moves the room from waiting to active and starts the timer
func (r *Room) Start(now time.Time) error {
	if r.Status != StatusWaiting {
		return ErrInvalidTransition
	}
	r.Status = StatusActive
	r.StartedAt = &now
	r.LastActivityAt = &now
	r.TimerRunning = true
	r.TimerStartedAt = &now
	return nil
}

// StartTimer resumes the timer after a pause
func (r *Room) StartTimer(now time.Time) error {
	if r.TimerRunning {
		return ErrInvalidTransition
	}
	r.TimerRunning = true
	r.TimerStartedAt = &now
	r.LastActivityAt = &now
	return nil
}

// PauseTimer banks the running interval into TimerSeconds and stops the timer
func (r *Room) PauseTimer(now time.Time) error {
	if !r.TimerRunning {
		return ErrInvalidTransition
	}
	r.TimerSeconds = r.CurrentElapsedSeconds(now)
	r.TimerRunning = false
	r.TimerStartedAt = nil
	r.LastActivityAt = &now
	return nil
}

// Complete moves the room to its terminal status, banking the timer first if
// it is still running. Fails from waiting or completed.
func (r *Room) Complete(now time.Time) error {
	if r.Status != StatusActive && r.Status != StatusPaused {
		return ErrInvalidTransition
	}
	if r.TimerRunning {
		if err := r.PauseTimer(now); err != nil {
			return err
		}
	}
	r.Status = StatusCompleted
	r.EndedAt = &now
	return nil
}

// AddHearts increments the heart counter. The counter is never decremented.
func (r *Room) AddHearts(count int, now time.Time) error {
	if count <= 0 {
		return ErrValidationFailed
	}
	if r.Completed() {
		return ErrInvalidTransition
	}
	r.HeartCount += count
	r.LastActivityAt = &now
	return nil
}

// UpdateActivity records a heartbeat from a participant
func (r *Room) UpdateActivity(now time.Time) {
	r.LastActivityAt = &now
}

// SetEmotion records the participant's current emotion
func (r *Room) SetEmotion(userID string, emotion Emotion, now time.Time) error {
	if !emotion.Valid() {
		return ErrInvalidEmotion
	}
	switch userID {
	case r.UserAID:
		r.UserAEmotion = &emotion
	case r.UserBID:
		r.UserBEmotion = &emotion
	default:
		return ErrInvalidParticipant
	}
	r.LastActivityAt = &now
	return nil
}

// EmotionFor returns the participant's current emotion, if any
func (r *Room) EmotionFor(userID string) *Emotion {
	switch userID {
	case r.UserAID:
		return r.UserAEmotion
	case r.UserBID:
		return r.UserBEmotion
	}
	return nil
}

// CurrentElapsedSeconds returns banked seconds plus the running interval,
// truncated to whole seconds.
func (r *Room) CurrentElapsedSeconds(now time.Time) int {
	if !r.TimerRunning || r.TimerStartedAt == nil {
		return r.TimerSeconds
	}
	elapsed := r.TimerSeconds + int(now.Sub(*r.TimerStartedAt)/time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// ElapsedTimeFormatted renders elapsed time as zero-padded MM:SS with
// unbounded minutes.
func (r *Room) ElapsedTimeFormatted(now time.Time) string {
	seconds := r.CurrentElapsedSeconds(now)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Stale reports whether the room has seen no activity for longer than threshold
func (r *Room) Stale(now time.Time, threshold time.Duration) bool {
	if r.LastActivityAt == nil {
		return false
	}
	return now.Sub(*r.LastActivityAt) > threshold
}

// AutoCompleteIfStale completes an active room that has gone stale and
// reports whether it did. Any other room is left untouched.
func (r *Room) AutoCompleteIfStale(now time.Time, threshold time.Duration) bool {
	if r.Status != StatusActive || !r.Stale(now, threshold) {
		return false
	}
	if err := r.Complete(now); err != nil {
		return false
	}
	return true
}
