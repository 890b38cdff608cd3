//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/auth"
	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/returns"
	"gitlab.com/gemvault/storefront/internal/webhook"
)

type ReturnEngine interface {
	ApplyAction(ctx context.Context, returnID string, req returns.AdminRequest, actor string) (*domain.Return, error)
	RequestReturn(ctx context.Context, req returns.CustomerReturnRequest, userID string) (*domain.Return, error)
	CreateManualReturn(ctx context.Context, req returns.ManualReturnRequest, actor string) (*domain.Return, error)
	ManualRefund(ctx context.Context, req returns.ManualRefundRequest, actor string) (*domain.Return, error)
	CancelReturn(ctx context.Context, returnID, userID, note string) (*domain.Return, error)
}

type ReturnReader interface {
	GetReturn(ctx context.Context, id string) (*domain.Return, error)
	ListReturnsByStatus(ctx context.Context, status domain.ReturnStatus, limit int) ([]*domain.Return, error)
}

type Webhooks interface {
	HandleForward(ctx context.Context, body []byte, signature string) webhook.Result
	HandleReverse(ctx context.Context, body []byte, signature string) webhook.Result
	HandleTrackingUpdate(ctx context.Context, body []byte, signature string) webhook.Result
}

type Authenticator interface {
	Login(ctx context.Context, email, password string, role domain.Role) (*auth.LoginResult, error)
}

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type Server struct {
	engine       ReturnEngine
	reader       ReturnReader
	webhooks     Webhooks
	logins       Authenticator
	tokens       TokenValidator
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(engine ReturnEngine, reader ReturnReader, webhooks Webhooks, logins Authenticator, tokens TokenValidator, logger *zap.Logger) *Server {
	s := &Server{
		engine:       engine,
		reader:       reader,
		webhooks:     webhooks,
		logins:       logins,
		tokens:       tokens,
		logger:       logger,
		AuditManager: NewAuditManager(2, 5, 500*time.Millisecond, logger.Named("audit")),
	}
	s.server = &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// the reverse webhook may run a refund before it answers
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Run serves on addr until Shutdown is called.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.server.Addr = addr
	s.AuditManager.Start(ctx)

	s.logger.Info("server starting", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("http server shutdown completed")

	s.AuditManager.Shutdown(ctx)
	return nil
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	hooks := api.PathPrefix("/webhooks").Subrouter()
	hooks.Use(corsMiddleware)
	hooks.HandleFunc("/shipment", s.webhookHandler(s.webhooks.HandleForward, forwardSignatureHeaders)).
		Methods(http.MethodPost, http.MethodOptions).Name("shipmentWebhook")
	hooks.HandleFunc("/return-pickup", s.webhookHandler(s.webhooks.HandleReverse, reverseSignatureHeaders)).
		Methods(http.MethodPost, http.MethodOptions).Name("returnPickupWebhook")
	hooks.HandleFunc("/tracking-updates", s.webhookHandler(s.webhooks.HandleTrackingUpdate, forwardSignatureHeaders)).
		Methods(http.MethodPost, http.MethodOptions).Name("trackingWebhook")

	api.HandleFunc("/admin/login", s.handleLogin(domain.RoleAdmin)).Methods(http.MethodPost).Name("adminLogin")
	api.HandleFunc("/login", s.handleLogin(domain.RoleCustomer)).Methods(http.MethodPost).Name("customerLogin")

	admin := func(h http.HandlerFunc) http.Handler {
		return s.requireRole(domain.RoleAdmin)(s.auditLogMiddleware(h))
	}
	api.Handle("/admin/returns", admin(s.handleListReturns)).Methods(http.MethodGet).Name("adminListReturns")
	api.Handle("/admin/returns/manual", admin(s.handleManualReturn)).Methods(http.MethodPost).Name("adminManualReturn")
	api.Handle("/admin/returns/{id}", admin(s.handleAdminGetReturn)).Methods(http.MethodGet).Name("adminGetReturn")
	api.Handle("/admin/returns/{id}", admin(s.handleUpdateReturn)).Methods(http.MethodPut).Name("adminUpdateReturn")
	api.Handle("/admin/refunds/manual", admin(s.handleManualRefund)).Methods(http.MethodPost).Name("adminManualRefund")

	customer := func(h http.HandlerFunc) http.Handler {
		return s.requireRole(domain.RoleCustomer)(h)
	}
	api.Handle("/returns", customer(s.handleCreateReturn)).Methods(http.MethodPost).Name("createReturn")
	api.Handle("/returns/{id}", customer(s.handleGetOwnReturn)).Methods(http.MethodGet).Name("getReturn")
	api.Handle("/returns/{id}/cancel", customer(s.handleCancelReturn)).Methods(http.MethodPost).Name("cancelReturn")

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps domain errors onto HTTP statuses. Anything unknown is a
// 500 with a generic message.
func errorStatus(err error) (int, string) {
	var (
		ve  *domain.ValidationError
		pe  *domain.PreconditionError
		te  *domain.TransitionError
		ae  *domain.AmbiguousError
		nf  *domain.NotFoundError
		au  *domain.AuthenticationError
		ext *domain.ExternalIntegrationError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &pe), errors.As(err, &te), errors.As(err, &ae),
		errors.Is(err, domain.ErrActiveReturnExists):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &nf):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &au):
		if au.Forbidden {
			return http.StatusForbidden, err.Error()
		}
		return http.StatusUnauthorized, err.Error()
	case errors.As(err, &ext):
		return http.StatusBadGateway, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	respondError(w, status, message)
}
