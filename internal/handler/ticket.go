package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/ticket"
)

// TicketHandler handles ticket purchase and reveal requests
type TicketHandler struct {
	service ticket.Service
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(service ticket.Service) *TicketHandler {
	return &TicketHandler{service: service}
}

// PurchaseRequest is the request body for purchasing a ticket
type PurchaseRequest struct {
	BatchID string `json:"batch_id" validate:"required,uuid"`
}

// HandlePurchase allocates one ticket from a batch to the caller
func (h *TicketHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Purchase ticket"); err != nil {
		return
	}
	batchID := uuid.MustParse(req.BatchID)

	tk, err := h.service.Purchase(r.Context(), userID, batchID)
	if err != nil {
		respondServiceError(w, r, ErrMsgPurchaseFailed, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Data: tk})
}

// ActivateRequest is the request body for activating a physical ticket code
type ActivateRequest struct {
	Code string `json:"code" validate:"required"`
}

// HandleActivate claims a pre-generated physical ticket by its printed code
func (h *TicketHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}

	var req ActivateRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Activate ticket"); err != nil {
		return
	}

	tk, err := h.service.Activate(r.Context(), userID, req.Code)
	if err != nil {
		respondServiceError(w, r, ErrMsgActivateFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: tk})
}

// HandleReveal settles the caller's ticket and credits any prize
func (h *TicketHandler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	result, err := h.service.Reveal(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, r, ErrMsgRevealFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: result})
}

// HandleGetTicket returns a single ticket
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	tk, err := h.service.GetTicket(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetTicketFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: tk})
}
