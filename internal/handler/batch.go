package handler

import (
	"net/http"

	"github.com/tombolapay/settlement/internal/ticket"
)

// BatchHandler handles batch administration requests
type BatchHandler struct {
	service ticket.Service
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(service ticket.Service) *BatchHandler {
	return &BatchHandler{service: service}
}

// CreateBatchRequest is the request body for creating a batch
type CreateBatchRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Price          int64  `json:"price" validate:"gt=0"`
	PrizeAmount    int64  `json:"prize_amount" validate:"gte=0"`
	TotalTickets   int    `json:"total_tickets" validate:"gt=0"`
	WinningTickets int    `json:"winning_tickets" validate:"gte=0"`
	LosingTickets  int    `json:"losing_tickets" validate:"gte=0"`
}

// HandleCreateBatch creates a new ticket batch
func (h *BatchHandler) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req CreateBatchRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create batch"); err != nil {
		return
	}

	batch, err := h.service.CreateBatch(r.Context(), ticket.CreateBatchParams{
		Name:           req.Name,
		Price:          req.Price,
		PrizeAmount:    req.PrizeAmount,
		TotalTickets:   req.TotalTickets,
		WinningTickets: req.WinningTickets,
		LosingTickets:  req.LosingTickets,
	})
	if err != nil {
		respondServiceError(w, r, ErrMsgCreateBatchFailed, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgBatchCreated, Data: batch})
}

// HandleListBatches returns all batches still on sale
func (h *BatchHandler) HandleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.service.ListActiveBatches(r.Context())
	if err != nil {
		respondServiceError(w, r, ErrMsgListBatchesFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: batches})
}

// HandleGenerateBatch pre-generates the physical ticket pool for a batch
func (h *BatchHandler) HandleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	tickets, err := h.service.GenerateBatch(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, ErrMsgGenerateBatchFailed, err)
		return
	}

	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgBatchGenerated, Data: tickets})
}

// HandleDeactivateBatch takes a batch off sale
func (h *BatchHandler) HandleDeactivateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateBatch(r.Context(), id); err != nil {
		respondServiceError(w, r, ErrMsgDeactivateBatchFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgBatchDeactivated})
}
