package fanz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// NotaryClient posts vote provenance events to the external notarization
// service. Strictly fire-and-forget: callers log the error and move on, and
// there is no retry by design.
type NotaryClient struct {
	baseURL string
	httpc   *http.Client
}

// NewNotaryClient creates a notarization client.
func NewNotaryClient(baseURL string) *NotaryClient {
	return &NotaryClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}
}

type notaryEvent struct {
	EventID    string    `json:"event_id"`
	VoterID    uint      `json:"voter_id"`
	EntityName string    `json:"entity_name"`
	Votes      int       `json:"votes"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Record submits one vote event for notarization.
func (c *NotaryClient) Record(ctx context.Context, voterID uint, entityName string, votes int) error {
	if c.baseURL == "" {
		return fmt.Errorf("notary service not configured")
	}

	ev := notaryEvent{
		EventID:    uuid.NewString(),
		VoterID:    voterID,
		EntityName: entityName,
		Votes:      votes,
		OccurredAt: time.Now(),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/votes", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notary service status %d", resp.StatusCode)
	}
	return nil
}
