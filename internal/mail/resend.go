package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"inventory-backend/internal/inventory"
)

const defaultBaseURL = "https://api.resend.com"

// Client delivers low-stock alerts through the Resend API.
type Client struct {
	APIKey  string
	From    string
	BaseURL string

	http *http.Client
}

func NewClient(apiKey, from string) *Client {
	return &Client{
		APIKey:  apiKey,
		From:    from,
		BaseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *Client) SendLowStockAlert(ctx context.Context, alert inventory.LowStockAlert) error {
	if alert.To == "" {
		return errors.New("no alert recipient configured")
	}

	body := sendRequest{
		From:    c.From,
		To:      []string{alert.To},
		Subject: fmt.Sprintf("⚠️ Stock Alert: %s (%d units left)", alert.Product, alert.Quantity),
		HTML:    renderLowStockHTML(alert),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, raw)
	}
	return nil
}
