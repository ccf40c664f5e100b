package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tombolapay/settlement/internal/domain"
)

func TestHandleCollect(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		body           interface{}
		setupMock      func(*MockPaymentService)
		expectedStatus int
	}{
		{
			name:   "accepted",
			userID: "user-1",
			body:   CollectRequest{Amount: 5_000, Phone: "+224620000001", Purpose: "topup"},
			setupMock: func(m *MockPaymentService) {
				m.On("Initiate", mock.Anything, "user-1", int64(5_000), "+224620000001", "topup").
					Return(&domain.PaymentAttempt{ID: uuid.New(), Status: domain.PaymentStatusPending}, nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "bad phone format",
			userID:         "user-1",
			body:           CollectRequest{Amount: 5_000, Phone: "call-me-maybe", Purpose: "topup"},
			setupMock:      func(m *MockPaymentService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "amount below minimum",
			userID: "user-1",
			body:   CollectRequest{Amount: 10, Phone: "+224620000001", Purpose: "topup"},
			setupMock: func(m *MockPaymentService) {
				m.On("Initiate", mock.Anything, "user-1", int64(10), "+224620000001", "topup").
					Return(nil, domain.ErrAmountBelowMinimum)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "provider token unavailable",
			userID: "user-1",
			body:   CollectRequest{Amount: 5_000, Phone: "+224620000001", Purpose: "topup"},
			setupMock: func(m *MockPaymentService) {
				m.On("Initiate", mock.Anything, "user-1", int64(5_000), "+224620000001", "topup").
					Return(nil, domain.ErrTokenRefreshFailed)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPaymentService{}
			tt.setupMock(svc)
			h := NewPaymentHandler(svc)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/payments/collect", bytes.NewReader(body))
			if tt.userID != "" {
				req.Header.Set(UserIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()

			h.HandleCollect(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleGetAttempt(t *testing.T) {
	attemptID := uuid.New()

	t.Run("polls provider state", func(t *testing.T) {
		svc := &MockPaymentService{}
		svc.On("Poll", mock.Anything, attemptID).
			Return(&domain.PaymentAttempt{ID: attemptID, Status: domain.PaymentStatusCompleted}, nil)
		h := NewPaymentHandler(svc)

		req := withPathID(httptest.NewRequest(http.MethodGet, "/payments/"+attemptID.String(), nil), attemptID)
		rec := httptest.NewRecorder()

		h.HandleGetAttempt(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"completed"`)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		svc := &MockPaymentService{}
		svc.On("Poll", mock.Anything, attemptID).Return(nil, domain.ErrAttemptNotFound)
		h := NewPaymentHandler(svc)

		req := withPathID(httptest.NewRequest(http.MethodGet, "/payments/"+attemptID.String(), nil), attemptID)
		rec := httptest.NewRecorder()

		h.HandleGetAttempt(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
