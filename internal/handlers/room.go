package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"consoul-backend/internal/middleware"
	"consoul-backend/internal/models"
	"consoul-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RoomHandler handles room-related HTTP requests
type RoomHandler struct {
	roomService *services.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService *services.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

// CreateRoomRequest represents the request body for creating a room
type CreateRoomRequest struct {
	Title string `json:"title"`
}

// AddHeartsRequest represents the request body for adding hearts
type AddHeartsRequest struct {
	Count int `json:"count"`
}

// SetEmotionRequest represents the request body for setting an emotion
type SetEmotionRequest struct {
	Emotion string `json:"emotion"`
}

// CreateRoom handles POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status, err := h.roomService.CreateRoom(ctx, userID, req.Title)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create room")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("room_id", status.ID).
		Msg("Room created")

	respondJSON(w, http.StatusCreated, status)
}

// ListRooms handles GET /api/v1/rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	rooms, err := h.roomService.ListRooms(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list rooms")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// Status handles GET /api/v1/rooms/{room_id}/status
func (h *RoomHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.respondWith(w, r, "status", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.Status(ctx.ctx, ctx.roomID, ctx.userID)
	})
}

// Start handles POST /api/v1/rooms/{room_id}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.respondWith(w, r, "start", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.Start(ctx.ctx, ctx.roomID, ctx.userID)
	})
}

// PauseTimer handles POST /api/v1/rooms/{room_id}/pause_timer
func (h *RoomHandler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	h.respondWith(w, r, "pause_timer", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.PauseTimer(ctx.ctx, ctx.roomID, ctx.userID)
	})
}

// ResumeTimer handles POST /api/v1/rooms/{room_id}/resume_timer
func (h *RoomHandler) ResumeTimer(w http.ResponseWriter, r *http.Request) {
	h.respondWith(w, r, "resume_timer", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.ResumeTimer(ctx.ctx, ctx.roomID, ctx.userID)
	})
}

// Complete handles POST /api/v1/rooms/{room_id}/complete
func (h *RoomHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.respondWith(w, r, "complete", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.Complete(ctx.ctx, ctx.roomID, ctx.userID)
	})
}

// AddHearts handles POST /api/v1/rooms/{room_id}/hearts
func (h *RoomHandler) AddHearts(w http.ResponseWriter, r *http.Request) {
	count := 1
	if r.Body != nil && r.ContentLength != 0 {
		var req AddHeartsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Count != 0 {
			count = req.Count
		}
	}

	h.respondWith(w, r, "add_hearts", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.AddHearts(ctx.ctx, ctx.roomID, ctx.userID, count)
	})
}

// UpdateActivity handles POST /api/v1/rooms/{room_id}/activity
func (h *RoomHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	h.respondWith(w, r, "update_activity", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.UpdateActivity(ctx.ctx, ctx.roomID, ctx.userID)
	})
}

// SetEmotion handles POST /api/v1/rooms/{room_id}/emotion
func (h *RoomHandler) SetEmotion(w http.ResponseWriter, r *http.Request) {
	var req SetEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.respondWith(w, r, "set_emotion", func(ctx roomCtx) (*services.RoomStatus, error) {
		return h.roomService.SetEmotion(ctx.ctx, ctx.roomID, ctx.userID, models.Emotion(req.Emotion))
	})
}

type roomCtx struct {
	ctx    context.Context
	roomID string
	userID string
}

// respondWith runs one room action for the authenticated caller and renders
// the resulting status snapshot.
func (h *RoomHandler) respondWith(w http.ResponseWriter, r *http.Request, action string, fn func(roomCtx) (*services.RoomStatus, error)) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	roomID := chi.URLParam(r, "room_id")

	if roomID == "" {
		respondError(w, "room_id is required", http.StatusBadRequest)
		return
	}

	status, err := fn(roomCtx{ctx: ctx, roomID: roomID, userID: userID})
	if err != nil {
		log.Warn().
			Err(err).
			Str("user_id", userID).
			Str("room_id", roomID).
			Str("action", action).
			Msg("Room action failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}
