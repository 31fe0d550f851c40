package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// SnapClient requests client-facing payment tokens from the gateway's Snap
// API. Token issuance is a single POST; failures surface to the caller and
// are never retried inside the request.
type SnapClient struct {
	baseURL   string
	serverKey string
	http      *http.Client
}

func NewSnapClient(baseURL, serverKey string) *SnapClient {
	return &SnapClient{
		baseURL:   baseURL,
		serverKey: serverKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string          `json:"order_id"`
		GrossAmount decimal.Decimal `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
	} `json:"customer_details"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	ErrorMessages []string `json:"error_messages"`
}

func (c *SnapClient) CreateToken(ctx context.Context, orderRef string, gross decimal.Decimal, customerName, customerEmail string) (string, error) {
	var req snapRequest
	req.TransactionDetails.OrderID = orderRef
	req.TransactionDetails.GrossAmount = gross
	req.CustomerDetails.FirstName = customerName
	req.CustomerDetails.Email = customerEmail

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.serverKey, "")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway token request: %w", err)
	}
	defer resp.Body.Close()

	var out snapResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gateway token response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		if len(out.ErrorMessages) > 0 {
			return "", fmt.Errorf("gateway token rejected: %s", out.ErrorMessages[0])
		}
		return "", fmt.Errorf("gateway token rejected: status %d", resp.StatusCode)
	}
	if out.Token == "" {
		return "", fmt.Errorf("gateway returned empty token")
	}
	return out.Token, nil
}
