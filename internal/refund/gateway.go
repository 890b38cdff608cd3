package refund

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gitlab.com/gemvault/storefront/internal/domain"
)

const refundPath = "/v1/refunds"

type GatewayConfig struct {
	BaseURL  string
	APIKey   string
	Currency string
	Timeout  time.Duration
}

// GatewayClient calls the payment gateway refund API.
type GatewayClient struct {
	config     GatewayConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGatewayClient(config GatewayConfig, logger *zap.Logger) *GatewayClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GatewayClient{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("component", "refund_gateway")),
	}
}

type gatewayRefundRequest struct {
	Reference string `json:"reference"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type gatewayRefundResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Method    string `json:"method"`
	CreatedAt int64  `json:"created_at"`
}

type gatewayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Refund amounts travel in minor units.
func (c *GatewayClient) Refund(ctx context.Context, req Request) (*Result, error) {
	if !req.Amount.IsPositive() {
		return nil, &domain.ValidationError{Field: "amount", Message: "refund amount must be positive"}
	}
	if req.IdempotencyKey() == "" {
		return nil, &domain.ValidationError{Field: "returnId", Message: "refund must reference a return"}
	}

	body, err := json.Marshal(gatewayRefundRequest{
		Reference: req.IdempotencyKey(),
		OrderID:   req.OrderNumber,
		Amount:    req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Currency:  c.config.Currency,
		Method:    req.Method,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, fmt.Errorf("encode refund request: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, refundPath, body, req.IdempotencyKey())
	if err != nil {
		c.logger.Warn("refund call failed", zap.String("reference", req.IdempotencyKey()), zap.Error(err))
		return nil, &domain.ExternalIntegrationError{Op: "refund", Err: err}
	}

	var resp gatewayRefundResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &domain.ExternalIntegrationError{Op: "refund", Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.ID == "" || strings.EqualFold(resp.Status, "failed") {
		return nil, &domain.ExternalIntegrationError{Op: "refund", Err: fmt.Errorf("gateway refused refund, status %q", resp.Status)}
	}

	processedAt := time.Now().UTC()
	if resp.CreatedAt > 0 {
		processedAt = time.Unix(resp.CreatedAt, 0).UTC()
	}
	method := resp.Method
	if method == "" {
		method = req.Method
	}
	c.logger.Info("refund accepted by gateway",
		zap.String("reference", req.IdempotencyKey()),
		zap.String("transaction_id", resp.ID),
		zap.String("amount", req.Amount.String()))

	return &Result{TransactionID: resp.ID, Method: method, ProcessedAt: processedAt}, nil
}

func (c *GatewayClient) doRequest(ctx context.Context, method, path string, body []byte, idempotencyKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.config.BaseURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unavailable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp gatewayErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return nil, fmt.Errorf("gateway error %s: %s", errResp.Error.Code, errResp.Error.Description)
		}
		return nil, fmt.Errorf("gateway error: HTTP %d", resp.StatusCode)
	}
	return respBody, nil
}
