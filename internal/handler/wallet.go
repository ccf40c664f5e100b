package handler

import (
	"net/http"
	"strconv"

	"github.com/tombolapay/settlement/internal/wallet"
)

// WalletHandler handles wallet read requests
type WalletHandler struct {
	service wallet.Service
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(service wallet.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

// HandleGetWallet returns the caller's wallet, creating it on first sight
func (h *WalletHandler) HandleGetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}

	wlt, err := h.service.GetOrCreate(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetWalletFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: wlt})
}

// HandleGetTransactions returns the caller's ledger history, newest first
func (h *WalletHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(GetOptionalQueryParam(r, "limit", "0"))
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return
	}

	history, err := h.service.GetHistory(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetHistoryFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: history})
}

// HandleReconcile compares the caller's balance against the signed sum of
// their ledger entries
func (h *WalletHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r, w)
	if !ok {
		return
	}

	report, err := h.service.Reconcile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, ErrMsgReconcileFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: report})
}
