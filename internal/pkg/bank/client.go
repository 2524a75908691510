package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workpulse-hr/workpulse-backend-go/internal/config"
)

// Beneficiary is the destination account for a payout.
type Beneficiary struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name,omitempty"`
}

// TransferRequest is a single payout instruction.
type TransferRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Beneficiary Beneficiary     `json:"beneficiary"`
	Narration   string          `json:"narration,omitempty"`
	ReferenceID string          `json:"reference_id"`
}

// TransferResponse is the gateway's outcome for one payout.
type TransferResponse struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference,omitempty"`
	Provider  string `json:"provider"`
	Error     string `json:"error,omitempty"`
}

// Transferrer is the payout surface the disbursement batch depends on.
type Transferrer interface {
	Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error)
	Provider() string
}

// APIError represents a payout gateway error response.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bank API error [%d] %s: %s", e.StatusCode, e.ErrorCode, e.Message)
}

// Client is a thin wrapper over the payout gateway's REST API.
type Client struct {
	baseURL     string
	apiKey      string
	provider    string
	environment string
	httpClient  *http.Client
}

func NewClient(cfg config.BankConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		provider:    cfg.Provider,
		environment: cfg.Environment,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Provider names the configured gateway.
func (c *Client) Provider() string {
	return c.provider
}

// IsSandbox returns true if running in sandbox mode
func (c *Client) IsSandbox() bool {
	return c.environment == "sandbox"
}

type transferAPIResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Transfer requests one payout. A non-2xx response surfaces as an APIError;
// a 2xx response with a rejected status surfaces as a failed
// TransferResponse, not an error, so the batch can record it and move on.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	if req.ReferenceID == "" {
		req.ReferenceID = uuid.NewString()
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payouts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Idempotency-Key", req.ReferenceID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp transferAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode transfer response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  apiResp.Error.Code,
			Message:    apiResp.Error.Message,
		}
	}

	result := &TransferResponse{
		Provider:  c.provider,
		Reference: apiResp.ID,
	}

	switch apiResp.Status {
	case "processed", "queued", "processing":
		result.Success = true
	default:
		result.Error = apiResp.Error.Message
		if result.Error == "" {
			result.Error = fmt.Sprintf("transfer rejected with status %q", apiResp.Status)
		}
	}

	return result, nil
}
