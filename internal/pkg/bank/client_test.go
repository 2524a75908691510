package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse-hr/workpulse-backend-go/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.BankConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Provider:    "razorpayx",
		Environment: "sandbox",
	})
}

func transferReq() TransferRequest {
	return TransferRequest{
		Amount: decimal.NewFromInt(43050),
		Beneficiary: Beneficiary{
			AccountHolder: "A Patel",
			AccountNumber: "123456789012",
			IFSC:          "HDFC0AB1234",
		},
		Narration: "Salary March 2024",
	}
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	t.Run("processed payout succeeds", func(t *testing.T) {
		t.Parallel()
		var gotAuth, gotIdem string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotIdem = r.Header.Get("Idempotency-Key")
			assert.Equal(t, "/v1/payouts", r.URL.Path)

			var body TransferRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "INR", body.Currency)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "payout_123", "status": "processed",
			})
		}))
		defer srv.Close()

		resp, err := testClient(srv.URL).Transfer(context.Background(), transferReq())
		require.NoError(t, err)

		assert.True(t, resp.Success)
		assert.Equal(t, "payout_123", resp.Reference)
		assert.Equal(t, "razorpayx", resp.Provider)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.NotEmpty(t, gotIdem)
	})

	t.Run("rejected payout is a failed response, not an error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "payout_456", "status": "rejected",
				"error": map[string]string{"message": "beneficiary account closed"},
			})
		}))
		defer srv.Close()

		resp, err := testClient(srv.URL).Transfer(context.Background(), transferReq())
		require.NoError(t, err)

		assert.False(t, resp.Success)
		assert.Equal(t, "beneficiary account closed", resp.Error)
	})

	t.Run("non-2xx surfaces as an APIError", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"code": "AUTH_FAILED", "message": "invalid api key"},
			})
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).Transfer(context.Background(), transferReq())
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "AUTH_FAILED", apiErr.ErrorCode)
	})

	t.Run("caller-supplied reference becomes the idempotency key", func(t *testing.T) {
		t.Parallel()
		var gotIdem string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotIdem = r.Header.Get("Idempotency-Key")
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "p", "status": "queued"})
		}))
		defer srv.Close()

		req := transferReq()
		req.ReferenceID = "salary-e1-march-2024"
		resp, err := testClient(srv.URL).Transfer(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "salary-e1-march-2024", gotIdem)
	})
}

func TestIsSandbox(t *testing.T) {
	t.Parallel()
	assert.True(t, testClient("http://example.com").IsSandbox())
}
