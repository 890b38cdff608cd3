package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"gitlab.com/gemvault/storefront/internal/auth"
	"gitlab.com/gemvault/storefront/internal/domain"
	"gitlab.com/gemvault/storefront/internal/returns"
	mock_server "gitlab.com/gemvault/storefront/internal/server/mocks"
	"gitlab.com/gemvault/storefront/internal/webhook"
)

const (
	adminToken    = "admin-token"
	customerToken = "customer-token"
)

type testServer struct {
	*Server
	engine   *mock_server.MockReturnEngine
	reader   *mock_server.MockReturnReader
	webhooks *mock_server.MockWebhooks
	logins   *mock_server.MockAuthenticator
}

func newTestServer(t *testing.T, logger *zap.Logger) *testServer {
	ctrl := gomock.NewController(t)

	ts := &testServer{
		engine:   mock_server.NewMockReturnEngine(ctrl),
		reader:   mock_server.NewMockReturnReader(ctrl),
		webhooks: mock_server.NewMockWebhooks(ctrl),
		logins:   mock_server.NewMockAuthenticator(ctrl),
	}
	tokens := mock_server.NewMockTokenValidator(ctrl)
	tokens.EXPECT().Validate(adminToken).
		Return(&auth.Claims{UserID: "admin-1", Role: domain.RoleAdmin}, nil).AnyTimes()
	tokens.EXPECT().Validate(customerToken).
		Return(&auth.Claims{UserID: "user-1", Role: domain.RoleCustomer}, nil).AnyTimes()
	tokens.EXPECT().Validate(gomock.Any()).Return(nil, auth.ErrInvalidToken).AnyTimes()

	ts.Server = New(ts.engine, ts.reader, ts.webhooks, ts.logins, tokens, logger)
	return ts
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Routes().ServeHTTP(w, req)
	return w
}

func TestWebhookEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		header    string
		setupMock func(ts *testServer) *gomock.Call
	}{
		{
			name:   "shipment",
			path:   "/api/webhooks/shipment",
			header: "X-Webhook-Signature",
			setupMock: func(ts *testServer) *gomock.Call {
				return ts.webhooks.EXPECT().HandleForward(gomock.Any(), []byte(`{"awb":"AWB123"}`), "sig")
			},
		},
		{
			name:   "return pickup with api key header",
			path:   "/api/webhooks/return-pickup",
			header: "anx-api-key",
			setupMock: func(ts *testServer) *gomock.Call {
				return ts.webhooks.EXPECT().HandleReverse(gomock.Any(), []byte(`{"awb":"AWB123"}`), "sig")
			},
		},
		{
			name:   "return pickup with signature header",
			path:   "/api/webhooks/return-pickup",
			header: "X-Webhook-Signature",
			setupMock: func(ts *testServer) *gomock.Call {
				return ts.webhooks.EXPECT().HandleReverse(gomock.Any(), []byte(`{"awb":"AWB123"}`), "sig")
			},
		},
		{
			name:   "tracking",
			path:   "/api/webhooks/tracking-updates",
			header: "X-Webhook-Signature",
			setupMock: func(ts *testServer) *gomock.Call {
				return ts.webhooks.EXPECT().HandleTrackingUpdate(gomock.Any(), []byte(`{"awb":"AWB123"}`), "sig")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, zap.NewNop())
			tt.setupMock(ts).Return(webhook.Result{Success: false, Message: "invalid signature"})

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(`{"awb":"AWB123"}`))
			req.Header.Set(tt.header, "sig")
			w := httptest.NewRecorder()
			ts.Routes().ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"invalid signature"}`, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestWebhookPreflight(t *testing.T) {
	ts := newTestServer(t, zap.NewNop())

	w := ts.do(http.MethodOptions, "/api/webhooks/shipment", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "anx-api-key")
}

func TestWebhookOutlivesClient(t *testing.T) {
	ts := newTestServer(t, zap.NewNop())
	ts.webhooks.EXPECT().HandleReverse(gomock.Any(), gomock.Any(), "").
		DoAndReturn(func(ctx context.Context, _ []byte, _ string) webhook.Result {
			assert.NoError(t, ctx.Err())
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return webhook.Result{Success: true, Message: "processed"}
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/return-pickup", strings.NewReader(`{}`)).WithContext(ctx)
	w := httptest.NewRecorder()
	ts.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
	}{
		{name: "missing token", path: "/api/admin/returns", expectedStatus: http.StatusUnauthorized},
		{name: "invalid token", path: "/api/admin/returns", token: "garbage", expectedStatus: http.StatusUnauthorized},
		{name: "customer on admin route", path: "/api/admin/returns", token: customerToken, expectedStatus: http.StatusForbidden},
		{name: "admin on customer route", path: "/api/returns/ret-1", token: adminToken, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, zap.NewNop())

			w := ts.do(http.MethodGet, tt.path, tt.token, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestHandleUpdateReturn(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(ts *testServer)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "approve",
			body: `{"action":"approve","note":"ok"}`,
			setupMocks: func(ts *testServer) {
				ts.engine.EXPECT().
					ApplyAction(gomock.Any(), "ret-1", gomock.Any(), "admin-1").
					DoAndReturn(func(_ context.Context, _ string, req returns.AdminRequest, _ string) (*domain.Return, error) {
						assert.Equal(t, returns.ActionApprove, req.Action)
						assert.Equal(t, "ok", req.Note)
						return &domain.Return{ID: "ret-1", Status: domain.ReturnStatusApproved}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid body",
			body:           `{"action":`,
			setupMocks:     func(ts *testServer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body"}`,
		},
		{
			name: "illegal transition",
			body: `{"action":"complete"}`,
			setupMocks: func(ts *testServer) {
				ts.engine.EXPECT().ApplyAction(gomock.Any(), "ret-1", gomock.Any(), "admin-1").
					Return(nil, &domain.TransitionError{From: domain.ReturnStatusRequested, To: domain.ReturnStatusCompleted})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"transition requested -> completed is not allowed"}`,
		},
		{
			name: "unknown return",
			body: `{"action":"approve"}`,
			setupMocks: func(ts *testServer) {
				ts.engine.EXPECT().ApplyAction(gomock.Any(), "ret-1", gomock.Any(), "admin-1").
					Return(nil, &domain.NotFoundError{Entity: "return", Ref: "ret-1"})
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "gateway failure",
			body: `{"action":"process_refund"}`,
			setupMocks: func(ts *testServer) {
				ts.engine.EXPECT().ApplyAction(gomock.Any(), "ret-1", gomock.Any(), "admin-1").
					Return(nil, &domain.ExternalIntegrationError{Op: "refund", Err: errors.New("timeout")})
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name: "unexpected error",
			body: `{"action":"approve"}`,
			setupMocks: func(ts *testServer) {
				ts.engine.EXPECT().ApplyAction(gomock.Any(), "ret-1", gomock.Any(), "admin-1").
					Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, zap.NewNop())
			ts.reader.EXPECT().GetReturn(gomock.Any(), "ret-1").
				Return(&domain.Return{ID: "ret-1", Status: domain.ReturnStatusRequested}, nil).AnyTimes()
			tt.setupMocks(ts)

			w := ts.do(http.MethodPut, "/api/admin/returns/ret-1", adminToken, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHandleListReturns(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(ts *testServer)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "defaults",
			query: "",
			setupMocks: func(ts *testServer) {
				ts.reader.EXPECT().ListReturnsByStatus(gomock.Any(), domain.ReturnStatus(""), defaultListLimit).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:  "limit is capped",
			query: "?status=received&limit=1000",
			setupMocks: func(ts *testServer) {
				ts.reader.EXPECT().ListReturnsByStatus(gomock.Any(), domain.ReturnStatusReceived, maxListLimit).
					Return([]*domain.Return{{ID: "ret-1", Status: domain.ReturnStatusReceived}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status",
			query:          "?status=lost",
			setupMocks:     func(ts *testServer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid value for 'status' parameter"}`,
		},
		{
			name:           "bad limit",
			query:          "?limit=-3",
			setupMocks:     func(ts *testServer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid value for 'limit' parameter"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, zap.NewNop())
			tt.setupMocks(ts)

			w := ts.do(http.MethodGet, "/api/admin/returns"+tt.query, adminToken, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHandleManualRefund(t *testing.T) {
	ts := newTestServer(t, zap.NewNop())
	ts.engine.EXPECT().ManualRefund(gomock.Any(), gomock.Any(), "admin-1").
		DoAndReturn(func(_ context.Context, req returns.ManualRefundRequest, _ string) (*domain.Return, error) {
			assert.Equal(t, "GV-1001", req.OrderRef)
			assert.Equal(t, "1500", req.Amount.String())
			return &domain.Return{ID: "ret-9", Status: domain.ReturnStatusRefundProcessed}, nil
		})

	w := ts.do(http.MethodPost, "/api/admin/refunds/manual", adminToken,
		`{"orderRef":"GV-1001","amount":"1500","reason":"damaged in transit"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandleGetOwnReturn(t *testing.T) {
	tests := []struct {
		name           string
		owner          string
		expectedStatus int
	}{
		{name: "own return", owner: "user-1", expectedStatus: http.StatusOK},
		{name: "someone else's return", owner: "user-2", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, zap.NewNop())
			ts.reader.EXPECT().GetReturn(gomock.Any(), "ret-1").
				Return(&domain.Return{ID: "ret-1", UserID: tt.owner}, nil)

			w := ts.do(http.MethodGet, "/api/returns/ret-1", customerToken, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandleCreateReturn(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "created", expectedStatus: http.StatusCreated},
		{name: "already active", err: domain.ErrActiveReturnExists, expectedStatus: http.StatusBadRequest},
		{name: "ineligible", err: &domain.ValidationError{Field: "orderId", Message: "return window closed"}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, zap.NewNop())
			var ret *domain.Return
			if tt.err == nil {
				ret = &domain.Return{ID: "ret-1", Status: domain.ReturnStatusRequested}
			}
			ts.engine.EXPECT().RequestReturn(gomock.Any(), gomock.Any(), "user-1").Return(ret, tt.err)

			w := ts.do(http.MethodPost, "/api/returns", customerToken,
				`{"orderId":"ord-1","reason":"too small","items":[{"productId":"p-1","quantity":1}]}`)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHandleCancelReturn(t *testing.T) {
	ts := newTestServer(t, zap.NewNop())
	ts.engine.EXPECT().CancelReturn(gomock.Any(), "ret-1", "user-1", "").
		Return(&domain.Return{ID: "ret-1", Status: domain.ReturnStatusCancelled}, nil)

	w := ts.do(http.MethodPost, "/api/returns/ret-1/cancel", customerToken, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		role           domain.Role
		err            error
		expectedStatus int
	}{
		{name: "admin", path: "/api/admin/login", role: domain.RoleAdmin, expectedStatus: http.StatusOK},
		{name: "customer", path: "/api/login", role: domain.RoleCustomer, expectedStatus: http.StatusOK},
		{
			name:           "wrong password",
			path:           "/api/admin/login",
			role:           domain.RoleAdmin,
			err:            &domain.AuthenticationError{Message: "invalid credentials"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "customer on admin login",
			path:           "/api/admin/login",
			role:           domain.RoleAdmin,
			err:            &domain.AuthenticationError{Forbidden: true, Message: "admin access required"},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, zap.NewNop())
			var res *auth.LoginResult
			if tt.err == nil {
				res = &auth.LoginResult{Token: "tok"}
			}
			ts.logins.EXPECT().Login(gomock.Any(), "a@gemvault.test", "secret", tt.role).Return(res, tt.err)

			w := ts.do(http.MethodPost, tt.path, "", `{"email":"a@gemvault.test","password":"secret"}`)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, zap.NewNop())

	w := ts.do(http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuditLogMiddleware_RecordsStatusChange(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ts := newTestServer(t, zap.New(core))
	ts.reader.EXPECT().GetReturn(gomock.Any(), "ret-1").
		Return(&domain.Return{ID: "ret-1", Status: domain.ReturnStatusRequested}, nil)
	ts.engine.EXPECT().ApplyAction(gomock.Any(), "ret-1", gomock.Any(), "admin-1").
		Return(&domain.Return{ID: "ret-1", Status: domain.ReturnStatusApproved}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ts.AuditManager.Start(ctx)

	w := ts.do(http.MethodPut, "/api/admin/returns/ret-1", adminToken, `{"action":"approve"}`)
	require.Equal(t, http.StatusOK, w.Code)

	shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	ts.AuditManager.Shutdown(shutdownCtx)

	entries := logs.FilterMessage("admin request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "adminUpdateReturn", fields["handler"])
	assert.Equal(t, "admin-1", fields["actor"])
	assert.Equal(t, "ret-1", fields["return_id"])
	assert.Equal(t, "approve", fields["action"])
	assert.Equal(t, "requested", fields["old_status"])
	assert.Equal(t, "approved", fields["new_status"])
	assert.Equal(t, 0, ts.AuditManager.Pending())
}

func TestAuditManager_FlushesOnTimeout(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewAuditManager(1, 10, 20*time.Millisecond, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.LogEntry(ctx, AuditLogEntry{Handler: "adminListReturns", StatusCode: http.StatusOK})

	require.Eventually(t, func() bool {
		return logs.FilterMessage("admin request").Len() == 1 && m.Pending() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestAuditManager_WritesDirectlyAfterShutdown(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewAuditManager(1, 10, time.Second, zap.New(core))
	m.Start(context.Background())
	m.Shutdown(context.Background())

	m.LogEntry(context.Background(), AuditLogEntry{Handler: "adminGetReturn"})

	assert.Equal(t, 1, logs.FilterMessage("audit entry written directly").Len())
	assert.Equal(t, 0, m.Pending())
}
