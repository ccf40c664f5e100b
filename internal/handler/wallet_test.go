package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/wallet"
)

func TestHandleGetWallet(t *testing.T) {
	t.Run("returns wallet", func(t *testing.T) {
		svc := &MockWalletService{}
		svc.On("GetOrCreate", mock.Anything, "user-1").
			Return(&domain.Wallet{UserID: "user-1", Balance: 2_500}, nil)
		h := NewWalletHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
		req.Header.Set(UserIDHeader, "user-1")
		rec := httptest.NewRecorder()

		h.HandleGetWallet(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"balance":2500`)
	})

	t.Run("missing user header", func(t *testing.T) {
		h := NewWalletHandler(&MockWalletService{})

		req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
		rec := httptest.NewRecorder()

		h.HandleGetWallet(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleGetTransactions(t *testing.T) {
	t.Run("passes limit through", func(t *testing.T) {
		svc := &MockWalletService{}
		svc.On("GetHistory", mock.Anything, "user-1", 5).
			Return([]domain.Transaction{}, nil)
		h := NewWalletHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/wallet/transactions?limit=5", nil)
		req.Header.Set(UserIDHeader, "user-1")
		rec := httptest.NewRecorder()

		h.HandleGetTransactions(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		h := NewWalletHandler(&MockWalletService{})

		req := httptest.NewRequest(http.MethodGet, "/wallet/transactions?limit=lots", nil)
		req.Header.Set(UserIDHeader, "user-1")
		rec := httptest.NewRecorder()

		h.HandleGetTransactions(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleReconcile(t *testing.T) {
	t.Run("returns report", func(t *testing.T) {
		svc := &MockWalletService{}
		svc.On("Reconcile", mock.Anything, "user-1").
			Return(&wallet.ReconcileReport{
				UserID:     "user-1",
				Balance:    2_500,
				LedgerSum:  2_500,
				Consistent: true,
			}, nil)
		h := NewWalletHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/wallet/reconcile", nil)
		req.Header.Set(UserIDHeader, "user-1")
		rec := httptest.NewRecorder()

		h.HandleReconcile(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"consistent":true`)
		svc.AssertExpectations(t)
	})

	t.Run("missing user header", func(t *testing.T) {
		h := NewWalletHandler(&MockWalletService{})

		req := httptest.NewRequest(http.MethodGet, "/wallet/reconcile", nil)
		rec := httptest.NewRecorder()

		h.HandleReconcile(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
