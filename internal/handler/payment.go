package handler

import (
	"net/http"

	"github.com/tombolapay/settlement/internal/payment"
)

// PaymentHandler handles mobile money collection requests
type PaymentHandler struct {
	service payment.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service payment.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CollectRequest is the request body for initiating a collection
type CollectRequest struct {
	Amount  int64  `json:"amount" validate:"gt=0"`
	Phone   string `json:"phone" validate:"required,msisdn"`
	Purpose string `json:"purpose" validate:"max=50"`
}

// HandleCollect starts a mobile money collection for the caller
func (h *PaymentHandler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}

	var req CollectRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Collect payment"); err != nil {
		return
	}

	attempt, err := h.service.Initiate(r.Context(), userID, req.Amount, req.Phone, req.Purpose)
	if err != nil {
		respondServiceError(w, r, ErrMsgCollectFailed, err)
		return
	}

	respondJSON(w, http.StatusAccepted, DataResponse{Message: MsgCollectionStart, Data: attempt})
}

// HandleGetAttempt polls the provider for the attempt's current state. A
// successful collection credits the caller's wallet as a side effect, so
// clients simply poll this endpoint until the status is terminal.
func (h *PaymentHandler) HandleGetAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathID(r, w, "id")
	if !ok {
		return
	}

	attempt, err := h.service.Poll(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetPaymentFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: attempt})
}
