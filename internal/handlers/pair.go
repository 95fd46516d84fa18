package handlers

import (
	"encoding/json"
	"net/http"

	"consoul-backend/internal/middleware"
	"consoul-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PairHandler handles pairing-related HTTP requests
type PairHandler struct {
	pairService *services.PairService
}

// NewPairHandler creates a new pair handler
func NewPairHandler(pairService *services.PairService) *PairHandler {
	return &PairHandler{
		pairService: pairService,
	}
}

// CreatePairRequest represents the request body for creating a pair
type CreatePairRequest struct {
	PartnerCode string `json:"partner_code"`
}

// PartnerResponse describes the caller's partner
type PartnerResponse struct {
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}

// CreatePair handles POST /api/v1/pairs
func (h *PairHandler) CreatePair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreatePairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PartnerCode == "" {
		respondError(w, "partner_code is required", http.StatusBadRequest)
		return
	}

	partner, err := h.pairService.CreatePairByCode(ctx, userID, req.PartnerCode)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("partner_code", req.PartnerCode).
			Msg("Failed to create pair")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("partner_id", partner.ID).
		Msg("Pair created")

	respondJSON(w, http.StatusOK, PartnerResponse{
		PartnerID:   partner.ID,
		PartnerName: partner.Name,
	})
}

// GetPair handles GET /api/v1/pairs
func (h *PairHandler) GetPair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	partner, err := h.pairService.PartnerOf(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to look up partner")
		respondDomainError(w, err)
		return
	}
	if partner == nil {
		respondError(w, "user is not paired", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, PartnerResponse{
		PartnerID:   partner.ID,
		PartnerName: partner.Name,
	})
}

// DeletePair handles DELETE /api/v1/pairs
func (h *PairHandler) DeletePair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := h.pairService.Unpair(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to unpair")
		respondDomainError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Pair dissolved")

	w.WriteHeader(http.StatusNoContent)
}
