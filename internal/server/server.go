package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tombolapay/settlement/internal/collective"
	"github.com/tombolapay/settlement/internal/database"
	"github.com/tombolapay/settlement/internal/handler"
	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/metrics"
	"github.com/tombolapay/settlement/internal/payment"
	"github.com/tombolapay/settlement/internal/ticket"
	"github.com/tombolapay/settlement/internal/wallet"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer builds the router and wires every handler to its service
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, ticketService ticket.Service, walletService wallet.Service, collectiveService collective.Service, paymentService payment.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	batchHandler := handler.NewBatchHandler(ticketService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	walletHandler := handler.NewWalletHandler(walletService)
	collectiveHandler := handler.NewCollectiveHandler(collectiveService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/batches", func(r chi.Router) {
			r.Post("/", batchHandler.HandleCreateBatch)
			r.Get("/", batchHandler.HandleListBatches)
			r.Post("/{id}/generate", batchHandler.HandleGenerateBatch)
			r.Post("/{id}/deactivate", batchHandler.HandleDeactivateBatch)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/purchase", ticketHandler.HandlePurchase)
			r.Post("/activate", ticketHandler.HandleActivate)
			r.Post("/{id}/reveal", ticketHandler.HandleReveal)
			r.Get("/{id}", ticketHandler.HandleGetTicket)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", walletHandler.HandleGetWallet)
			r.Get("/transactions", walletHandler.HandleGetTransactions)
			r.Get("/reconcile", walletHandler.HandleReconcile)
		})

		r.Route("/collective", func(r chi.Router) {
			r.Post("/propose", collectiveHandler.HandlePropose)
			r.Get("/open", collectiveHandler.HandleListOpen)
			r.Get("/{id}", collectiveHandler.HandleGetTicket)
			r.Post("/{id}/play", collectiveHandler.HandlePlaceStake)
			r.Post("/{id}/result", collectiveHandler.HandleSetResult)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/collect", paymentHandler.HandleCollect)
			r.Get("/{id}", paymentHandler.HandleGetAttempt)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, "Authorization") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
