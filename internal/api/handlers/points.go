package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// PointsHandler handles points tracker requests.
type PointsHandler struct {
	points *store.PointsStore
}

// NewPointsHandler creates a PointsHandler.
func NewPointsHandler(points *store.PointsStore) *PointsHandler {
	return &PointsHandler{points: points}
}

// PointsRequest is an earn or spend request.
type PointsRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// PointsResponse is the tracker plus the derived level.
type PointsResponse struct {
	store.PointsStats
	Level int `json:"level"`
}

func (h *PointsHandler) stats() PointsResponse {
	stats := h.points.Get()
	return PointsResponse{PointsStats: stats, Level: stats.Level()}
}

func decodePoints(w http.ResponseWriter, r *http.Request) (PointsRequest, bool) {
	var req PointsRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return req, false
	}
	if req.Amount <= 0 {
		response.BadRequest(w, errors.New("amount must be positive"))
		return req, false
	}
	return req, true
}

// GetPoints returns the points tracker.
func (h *PointsHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.stats())
}

// EarnPoints credits points.
func (h *PointsHandler) EarnPoints(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePoints(w, r)
	if !ok {
		return
	}
	if err := h.points.AddPoints(r.Context(), req.Amount, req.Reason); err != nil {
		response.InternalError(w, fmt.Errorf("failed to add points: %w", err))
		return
	}
	response.Success(w, h.stats())
}

// SpendPoints debits points if the balance covers them.
func (h *PointsHandler) SpendPoints(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePoints(w, r)
	if !ok {
		return
	}
	spent, err := h.points.SpendPoints(r.Context(), req.Amount, req.Reason)
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to spend points: %w", err))
		return
	}
	response.Success(w, struct {
		Spent bool `json:"spent"`
		PointsResponse
	}{spent, h.stats()})
}

// UpdateStreak records today's activity in the daily streak.
func (h *PointsHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	if _, err := h.points.UpdateDailyStreak(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to update streak: %w", err))
		return
	}
	response.Success(w, h.stats())
}

// ResetPoints clears the tracker.
func (h *PointsHandler) ResetPoints(w http.ResponseWriter, r *http.Request) {
	if err := h.points.Reset(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to reset points: %w", err))
		return
	}
	response.Success(w, h.stats())
}
