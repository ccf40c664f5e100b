package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tombolapay/settlement/internal/domain"
)

func stakeSelections() []domain.Prediction {
	return []domain.Prediction{
		{MatchName: "A vs B", Prediction: "1", Odds: decimal.RequireFromString("2.5")},
	}
}

func TestHandlePlaceStake(t *testing.T) {
	ticketID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		body           interface{}
		setupMock      func(*MockCollectiveService)
		expectedStatus int
	}{
		{
			name:   "successful stake",
			userID: "user-1",
			body:   PlaceStakeRequest{Stake: 100, Selections: stakeSelections()},
			setupMock: func(m *MockCollectiveService) {
				m.On("PlaceStake", mock.Anything, "user-1", ticketID, int64(100), mock.Anything).
					Return(&domain.Play{ID: uuid.New(), UserID: "user-1"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "zero stake",
			userID:         "user-1",
			body:           PlaceStakeRequest{Stake: 0, Selections: stakeSelections()},
			setupMock:      func(m *MockCollectiveService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "no selections",
			userID:         "user-1",
			body:           PlaceStakeRequest{Stake: 100},
			setupMock:      func(m *MockCollectiveService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "second play rejected",
			userID: "user-1",
			body:   PlaceStakeRequest{Stake: 100, Selections: stakeSelections()},
			setupMock: func(m *MockCollectiveService) {
				m.On("PlaceStake", mock.Anything, "user-1", ticketID, int64(100), mock.Anything).
					Return(nil, domain.ErrAlreadyPlayed)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockCollectiveService{}
			tt.setupMock(svc)
			h := NewCollectiveHandler(svc)

			body, _ := json.Marshal(tt.body)
			req := withPathID(httptest.NewRequest(http.MethodPost, "/collective/"+ticketID.String()+"/play", bytes.NewReader(body)), ticketID)
			if tt.userID != "" {
				req.Header.Set(UserIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()

			h.HandlePlaceStake(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleSetResult(t *testing.T) {
	ticketID := uuid.New()

	t.Run("settles lost ticket", func(t *testing.T) {
		svc := &MockCollectiveService{}
		svc.On("SetResult", mock.Anything, ticketID, domain.AITicketStatusLost).
			Return(&domain.SettlementResult{TicketID: ticketID, Outcome: domain.AITicketStatusRefunded, RefundApplied: true}, nil)
		h := NewCollectiveHandler(svc)

		body, _ := json.Marshal(SetResultRequest{Outcome: "lost"})
		req := withPathID(httptest.NewRequest(http.MethodPost, "/collective/"+ticketID.String()+"/result", bytes.NewReader(body)), ticketID)
		rec := httptest.NewRecorder()

		h.HandleSetResult(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"refund_applied":true`)
	})

	t.Run("rejects unknown outcome at validation", func(t *testing.T) {
		svc := &MockCollectiveService{}
		h := NewCollectiveHandler(svc)

		body, _ := json.Marshal(SetResultRequest{Outcome: "draw"})
		req := withPathID(httptest.NewRequest(http.MethodPost, "/collective/"+ticketID.String()+"/result", bytes.NewReader(body)), ticketID)
		rec := httptest.NewRecorder()

		h.HandleSetResult(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SetResult", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandlePropose(t *testing.T) {
	svc := &MockCollectiveService{}
	svc.On("Propose", mock.Anything).Return(&domain.AITicket{
		ID:        uuid.New(),
		TotalOdds: decimal.RequireFromString("7.5"),
		Status:    domain.AITicketStatusProposed,
	}, nil)
	h := NewCollectiveHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/collective/propose", nil)
	rec := httptest.NewRecorder()

	h.HandlePropose(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"proposed"`)
}
