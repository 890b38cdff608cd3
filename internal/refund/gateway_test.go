package refund

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
)

func TestGatewayClient_Refund(t *testing.T) {
	req := Request{
		ReturnID:     "ret-1",
		ReturnNumber: "RET-20240115-000001",
		OrderNumber:  "ORD-1001",
		Amount:       decimal.RequireFromString("1499.50"),
		Method:       "original_payment",
	}

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantTxID  string
		wantError bool
	}{
		{
			name: "accepted",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, refundPath, r.URL.Path)
				assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
				assert.Equal(t, "refund-RET-20240115-000001", r.Header.Get("Idempotency-Key"))

				var body gatewayRefundRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, int64(149950), body.Amount)
				assert.Equal(t, "INR", body.Currency)
				assert.Equal(t, "ORD-1001", body.OrderID)
				assert.Equal(t, "refund-RET-20240115-000001", body.Reference)

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"rfnd_123","status":"processed","created_at":1705312800}`))
			},
			wantTxID: "rfnd_123",
		},
		{
			name: "gateway error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds captured"}}`))
			},
			wantError: true,
		},
		{
			name: "gateway down",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantError: true,
		},
		{
			name: "failed status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":"rfnd_9","status":"failed"}`))
			},
			wantError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewGatewayClient(GatewayConfig{
				BaseURL:  srv.URL,
				APIKey:   "key-1",
				Currency: "INR",
				Timeout:  time.Second,
			}, zap.NewNop())

			res, err := client.Refund(context.Background(), req)
			if tc.wantError {
				var ext *domain.ExternalIntegrationError
				assert.True(t, errors.As(err, &ext))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTxID, res.TransactionID)
			assert.Equal(t, "original_payment", res.Method)
			assert.Equal(t, time.Unix(1705312800, 0).UTC(), res.ProcessedAt)
		})
	}
}

func TestGatewayClient_RejectsNonPositiveAmount(t *testing.T) {
	client := NewGatewayClient(GatewayConfig{BaseURL: "http://127.0.0.1:0"}, zap.NewNop())

	_, err := client.Refund(context.Background(), Request{Amount: decimal.Zero})
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestGatewayClient_RejectsMissingReturnReference(t *testing.T) {
	client := NewGatewayClient(GatewayConfig{BaseURL: "http://127.0.0.1:0"}, zap.NewNop())

	_, err := client.Refund(context.Background(), Request{OrderID: "ord-1", Amount: decimal.NewFromInt(500)})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "returnId", ve.Field)
}

func TestRequest_IdempotencyKey(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "return number",
			req:  Request{ReturnID: "ret-1", ReturnNumber: "RET-20240115-000001", OrderID: "ord-1"},
			want: "refund-RET-20240115-000001",
		},
		{
			name: "return id before numbering",
			req:  Request{ReturnID: "6f1c2b7e-0000-4000-8000-000000000001", OrderID: "ord-1"},
			want: "refund-6f1c2b7e-0000-4000-8000-000000000001",
		},
		{
			name: "no return",
			req:  Request{OrderID: "ord-1", Amount: decimal.NewFromInt(500)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.req.IdempotencyKey())
		})
	}
}

func TestNoopProcessor_Refund(t *testing.T) {
	p := NewNoopProcessor(zap.NewNop())

	res, err := p.Refund(context.Background(), Request{Amount: decimal.NewFromInt(10), Method: "store_credit"})
	require.NoError(t, err)
	assert.Contains(t, res.TransactionID, "manual-")
	assert.Equal(t, "store_credit", res.Method)
}
