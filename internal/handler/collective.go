package handler

import (
	"net/http"

	"github.com/tombolapay/settlement/internal/collective"
	"github.com/tombolapay/settlement/internal/domain"
)

// CollectiveHandler handles collective ticket requests
type CollectiveHandler struct {
	service collective.Service
}

// NewCollectiveHandler creates a new collective handler
func NewCollectiveHandler(service collective.Service) *CollectiveHandler {
	return &CollectiveHandler{service: service}
}

// HandlePropose creates a new collective ticket from the prediction source
func (h *CollectiveHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	tk, err := h.service.Propose(r.Context())
	if err != nil {
		respondServiceError(w, r, ErrMsgProposeFailed, err)
		return
	}
	respondJSON(w, http.StatusCreated, DataResponse{Data: tk})
}

// HandleListOpen returns collective tickets still accepting plays
func (h *CollectiveHandler) HandleListOpen(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.service.ListOpenTickets(r.Context())
	if err != nil {
		respondServiceError(w, r, ErrMsgProposeFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: tickets})
}

// HandleGetTicket returns one collective ticket with its aggregates
func (h *CollectiveHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	tk, err := h.service.GetTicket(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, ErrMsgProposeFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: tk})
}

// PlaceStakeRequest is the request body for joining a collective ticket
type PlaceStakeRequest struct {
	Stake      int64               `json:"stake" validate:"gt=0"`
	Selections []domain.Prediction `json:"selections" validate:"required,min=1"`
}

// HandlePlaceStake records the caller's play against a collective ticket
func (h *CollectiveHandler) HandlePlaceStake(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	var req PlaceStakeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Place stake"); err != nil {
		return
	}

	play, err := h.service.PlaceStake(r.Context(), userID, id, req.Stake, req.Selections)
	if err != nil {
		respondServiceError(w, r, ErrMsgPlaceStakeFailed, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgStakePlaced, Data: play})
}

// SetResultRequest is the request body for settling a collective ticket
type SetResultRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=won lost"`
}

// HandleSetResult settles a collective ticket for all players
func (h *CollectiveHandler) HandleSetResult(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	var req SetResultRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set result"); err != nil {
		return
	}

	result, err := h.service.SetResult(r.Context(), id, domain.AITicketStatus(req.Outcome))
	if err != nil {
		respondServiceError(w, r, ErrMsgSetResultFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: result})
}
