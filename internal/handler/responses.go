package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent at this point, all we can do is log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped
// user-facing error response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())
	status, message := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err)
	}
	respondError(w, status, message)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgProviderUnavailable = "Payment provider is temporarily unavailable. Please try again."

	// Wallet messages
	ErrMsgNotEnoughMoneyError = "Insufficient balance"
	ErrMsgWalletNotFoundError = "Wallet not found"
	ErrMsgInvalidAmountError  = "Amount must be positive"

	// Batch/ticket messages
	ErrMsgBatchNotFoundError    = "Batch not found"
	ErrMsgBatchSoldOutError     = "Batch is sold out"
	ErrMsgBatchInactiveError    = "Batch is not on sale"
	ErrMsgBatchAlreadySoldError = "Batch already has sold tickets"
	ErrMsgBatchGeneratedError   = "Batch sells through printed codes"
	ErrMsgTicketNotFoundError   = "Ticket not found"
	ErrMsgTicketUsedError       = "Ticket was already used"
	ErrMsgNotYourTicketError    = "That ticket belongs to another user"

	// Collective messages
	ErrMsgCollectiveNotFoundError = "Collective ticket not found"
	ErrMsgAlreadyPlayedError      = "You already played this ticket"
	ErrMsgTicketNotOpenError      = "Collective ticket is no longer open"
	ErrMsgInvalidOutcomeError     = "Outcome must be won or lost"

	// Payment messages
	ErrMsgAttemptNotFoundError = "Payment attempt not found"
	ErrMsgInvalidPhoneError    = "Invalid phone number"
	ErrMsgAmountTooSmallError  = "Amount is below the minimum collection amount"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// status codes and messages
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrWalletNotFound):
		return http.StatusNotFound, ErrMsgWalletNotFoundError
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, ErrMsgInvalidAmountError
	case errors.Is(err, domain.ErrBatchNotFound):
		return http.StatusNotFound, ErrMsgBatchNotFoundError
	case errors.Is(err, domain.ErrBatchExhausted):
		return http.StatusConflict, ErrMsgBatchSoldOutError
	case errors.Is(err, domain.ErrBatchInactive):
		return http.StatusConflict, ErrMsgBatchInactiveError
	case errors.Is(err, domain.ErrBatchAlreadySold):
		return http.StatusConflict, ErrMsgBatchAlreadySoldError
	case errors.Is(err, domain.ErrBatchGenerated):
		return http.StatusConflict, ErrMsgBatchGeneratedError
	case errors.Is(err, domain.ErrTicketNotFound):
		return http.StatusNotFound, ErrMsgTicketNotFoundError
	case errors.Is(err, domain.ErrTicketAlreadyUsed):
		return http.StatusConflict, ErrMsgTicketUsedError
	case errors.Is(err, domain.ErrNotTicketOwner):
		return http.StatusForbidden, ErrMsgNotYourTicketError
	case errors.Is(err, domain.ErrCollectiveNotFound):
		return http.StatusNotFound, ErrMsgCollectiveNotFoundError
	case errors.Is(err, domain.ErrAlreadyPlayed):
		return http.StatusConflict, ErrMsgAlreadyPlayedError
	case errors.Is(err, domain.ErrTicketNotOpen):
		return http.StatusConflict, ErrMsgTicketNotOpenError
	case errors.Is(err, domain.ErrInvalidOutcome):
		return http.StatusBadRequest, ErrMsgInvalidOutcomeError
	case errors.Is(err, domain.ErrAttemptNotFound):
		return http.StatusNotFound, ErrMsgAttemptNotFoundError
	case errors.Is(err, domain.ErrInvalidPhone):
		return http.StatusBadRequest, ErrMsgInvalidPhoneError
	case errors.Is(err, domain.ErrAmountBelowMinimum):
		return http.StatusBadRequest, ErrMsgAmountTooSmallError
	case errors.Is(err, domain.ErrTokenRefreshFailed):
		return http.StatusServiceUnavailable, ErrMsgProviderUnavailable
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
