package fanz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fanzhub/fanzhub/voting"
)

// MintClient calls the external token minting service for daily reward
// allotments. The service distinguishes "no wallet" from transient failures
// via HTTP 412; everything else is transient and left to the dispatcher's
// error partitioning.
type MintClient struct {
	baseURL string
	httpc   *http.Client
}

// NewMintClient creates a minting client. An empty baseURL yields a client
// whose calls always fail, which the dispatcher treats as transient.
func NewMintClient(baseURL string) *MintClient {
	return &MintClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type mintRequest struct {
	VoterID uint   `json:"voter_id"`
	Wallet  string `json:"wallet"`
	Amount  int    `json:"amount"`
}

type mintResponse struct {
	TxRef string `json:"tx_ref"`
}

// MintDaily mints amount fanz to the voter's wallet and returns the chain
// transaction reference. Returns voting.ErrNoWallet when the voter has no
// wallet provisioned, locally short-circuited for an empty wallet address.
func (c *MintClient) MintDaily(ctx context.Context, voterID uint, wallet string, amount int) (string, error) {
	if wallet == "" {
		return "", voting.ErrNoWallet
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("mint service not configured")
	}

	body, err := json.Marshal(mintRequest{VoterID: voterID, Wallet: wallet, Amount: amount})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/mint/daily", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		return "", fmt.Errorf("mint rejected: %w", voting.ErrNoWallet)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("mint service status %d: %s", resp.StatusCode, string(b))
	}

	var out mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.TxRef, nil
}
