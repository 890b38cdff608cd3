package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/returns"
	"gitlab.com/gemvault/storefront/internal/webhook"
)

const (
	maxWebhookBody   = 1 << 20
	webhookTimeout   = 45 * time.Second
	defaultListLimit = 50
	maxListLimit     = 200
)

var (
	forwardSignatureHeaders = []string{"X-Webhook-Signature"}
	reverseSignatureHeaders = []string{"anx-api-key", "X-Webhook-Signature"}
)

type webhookFunc func(ctx context.Context, body []byte, signature string) webhook.Result

// webhookHandler always answers 200. The courier disables endpoints that
// keep failing, so outcomes travel in the body only.
func (s *Server) webhookHandler(handle webhookFunc, signatureHeaders []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			s.logger.Warn("failed to read webhook body", zap.String("path", r.URL.Path), zap.Error(err))
			respondJSON(w, http.StatusOK, webhook.Result{Success: false, Message: "failed to read body"})
			return
		}

		var signature string
		for _, h := range signatureHeaders {
			if signature = r.Header.Get(h); signature != "" {
				break
			}
		}

		// a courier hanging up must not abort a refund half way
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), webhookTimeout)
		defer cancel()

		respondJSON(w, http.StatusOK, handle(ctx, body, signature))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		res, err := s.logins.Login(r.Context(), req.Email, req.Password, role)
		if err != nil {
			s.respondDomainError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleListReturns(w http.ResponseWriter, r *http.Request) {
	status := domain.ReturnStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid value for 'status' parameter")
		return
	}

	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'limit' parameter")
			return
		}
		limit = min(limit, maxListLimit)
	}

	list, err := s.reader.ListReturnsByStatus(r.Context(), status, limit)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Return{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleAdminGetReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := s.reader.GetReturn(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ret)
}

func (s *Server) handleUpdateReturn(w http.ResponseWriter, r *http.Request) {
	var req returns.AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ret, err := s.engine.ApplyAction(r.Context(), mux.Vars(r)["id"], req, claimsFrom(r.Context()).UserID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ret)
}

func (s *Server) handleManualReturn(w http.ResponseWriter, r *http.Request) {
	var req returns.ManualReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ret, err := s.engine.CreateManualReturn(r.Context(), req, claimsFrom(r.Context()).UserID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, ret)
}

func (s *Server) handleManualRefund(w http.ResponseWriter, r *http.Request) {
	var req returns.ManualRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ret, err := s.engine.ManualRefund(r.Context(), req, claimsFrom(r.Context()).UserID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, ret)
}

func (s *Server) handleCreateReturn(w http.ResponseWriter, r *http.Request) {
	var req returns.CustomerReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ret, err := s.engine.RequestReturn(r.Context(), req, claimsFrom(r.Context()).UserID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, ret)
}

// handleGetOwnReturn hides returns of other customers behind a 404.
func (s *Server) handleGetOwnReturn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ret, err := s.reader.GetReturn(r.Context(), id)
	if err == nil && ret.UserID != claimsFrom(r.Context()).UserID {
		err = &domain.NotFoundError{Entity: "return", Ref: id}
	}
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ret)
}

func (s *Server) handleCancelReturn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	ret, err := s.engine.CancelReturn(r.Context(), mux.Vars(r)["id"], claimsFrom(r.Context()).UserID, req.Note)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ret)
}
