package confirmation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/leadflow/internal/http/respond"
	"github.com/wolfman30/leadflow/internal/leads"
)

// Client calls a separately deployed confirmation handler. It implements
// leads.Confirmer.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient targets endpoint, the full URL of POST /send-confirmation.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if strings.TrimSpace(endpoint) == "" {
		panic("confirmation: endpoint required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Confirm posts the lead. Transport failures and gateway errors without a
// handler body wrap ErrUnreachable; handler-reported failures do not.
func (c *Client) Confirm(ctx context.Context, lead leads.LeadInput) (leads.Confirmation, error) {
	payload, err := json.Marshal(lead)
	if err != nil {
		return leads.Confirmation{}, fmt.Errorf("confirmation: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return leads.Confirmation{}, fmt.Errorf("confirmation: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return leads.Confirmation{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return leads.Confirmation{}, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode == http.StatusOK {
		var result Result
		if err := json.Unmarshal(body, &result); err != nil || !result.Success {
			return leads.Confirmation{}, fmt.Errorf("confirmation: unexpected success body: %s", truncate(body))
		}
		return leads.Confirmation{MessageID: result.MessageID, Status: result.Status, ContentSource: result.ContentSource}, nil
	}

	var failure respond.Failure
	if err := json.Unmarshal(body, &failure); err != nil || failure.Error == "" {
		if resp.StatusCode >= http.StatusBadGateway {
			return leads.Confirmation{}, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
		}
		return leads.Confirmation{}, fmt.Errorf("confirmation: handler returned status %d: %s", resp.StatusCode, truncate(body))
	}
	if resp.StatusCode == http.StatusBadRequest && len(failure.Errors) > 0 {
		verrs := make(leads.ValidationErrors, 0, len(failure.Errors))
		for _, f := range failure.Errors {
			verrs = append(verrs, leads.ValidationError{Field: f.Field, Message: f.Message})
		}
		return leads.Confirmation{}, verrs
	}
	return leads.Confirmation{}, fmt.Errorf("confirmation: handler returned status %d: %s", resp.StatusCode, failure.Error)
}

func truncate(b []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

var _ leads.Confirmer = (*Client)(nil)
