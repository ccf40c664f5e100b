package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tombolapay/settlement/internal/logger"
)

// UserIDHeader carries the authenticated user id, set by the external
// identity collaborator in front of this service
const UserIDHeader = "X-User-ID"

// DecodeAndValidateRequest decodes a JSON request body, validates it, and
// writes a standardized error response on failure.
//
// If this function returns an error, the HTTP response has already been
// written and the handler should return.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetUserID extracts the authenticated user id from the request header.
// If the header is missing, it writes an error response and returns false.
func GetUserID(r *http.Request, w http.ResponseWriter) (string, bool) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		logger.FromContext(r.Context()).Warn("Request missing user id header")
		respondError(w, http.StatusUnauthorized, ErrMsgMissingUserID)
		return "", false
	}
	return userID, true
}

// GetPathID parses a UUID path parameter. If the value is missing or not a
// UUID, it writes an error response and returns false.
func GetPathID(r *http.Request, w http.ResponseWriter, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Invalid id path parameter", "param", param, "value", raw)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// GetOptionalQueryParam retrieves an optional query parameter from the
// request, falling back to defaultValue when absent
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return defaultValue
	}
	return value
}
