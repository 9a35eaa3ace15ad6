package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/herdmon/herdmon/internal/config"
	"github.com/herdmon/herdmon/internal/domain/models"
)

// Client exposes the alert delivery operation used by the scheduler.
type Client interface {
	SendAlert(ctx context.Context, alert Alert) error
}

// Alert is the webhook payload describing one day's flagged cows.
type Alert struct {
	Date        string              `json:"date"`
	Summary     models.HerdSummary  `json:"summary"`
	FlaggedCows []models.HealthFlag `json:"flagged_cows"`
}

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds an alert webhook client using the provided configuration values.
func NewClient(cfg config.AlertConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.Token != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token))
	}

	return &WebhookClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// SendAlert posts one alert to the configured webhook.
func (c *WebhookClient) SendAlert(ctx context.Context, alert Alert) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(alert).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("alert webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
