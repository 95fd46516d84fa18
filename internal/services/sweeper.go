package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper periodically completes active rooms that have gone stale. Each
// room's check-and-transition runs independently under that room's lock; the
// sweeper never locks across rooms.
type Sweeper struct {
	roomService *RoomService
	roomStore   RoomStore
	interval    time.Duration
}

// NewSweeper creates a new sweeper
func NewSweeper(roomService *RoomService, roomStore RoomStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		roomService: roomService,
		roomStore:   roomStore,
		interval:    interval,
	}
}

// Start runs the sweep loop until ctx is cancelled
func (s *Sweeper) Start(ctx context.Context) {
	log.Info().
		Dur("interval", s.interval).
		Dur("stale_after", s.roomService.StaleAfter()).
		Msg("Starting room sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Room sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass over the currently stale active rooms
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.roomService.StaleAfter())

	ids, err := s.roomStore.ListStaleIDs(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stale rooms")
		return
	}
	if len(ids) == 0 {
		return
	}

	completed := 0
	for _, id := range ids {
		done, err := s.roomService.AutoCompleteIfStale(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("room_id", id).Msg("Failed to auto-complete stale room")
			continue
		}
		if done {
			completed++
			log.Info().Str("room_id", id).Msg("Auto-completed stale room")
		}
	}

	if completed > 0 {
		log.Info().Int("count", completed).Msg("Sweep pass completed rooms")
	}
}
