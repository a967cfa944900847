package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/pkg/config"
)

// Payload carries the push message content.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Gateway delivers push notifications to a target identity (an email or a
// registered device token). Delivery failure is reported, never escalated.
type Gateway interface {
	Notify(ctx context.Context, target string, payload Payload) (bool, error)
}

// HTTPGateway posts notifications to an external push endpoint.
type HTTPGateway struct {
	url       string
	serverKey string
	client    *http.Client
	logger    *zap.Logger
}

// NewHTTPGateway builds a gateway from notification config.
func NewHTTPGateway(cfg config.NotificationsConfig, logger *zap.Logger) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		url:       cfg.GatewayURL,
		serverKey: cfg.ServerKey,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type pushRequest struct {
	To           string  `json:"to"`
	Notification Payload `json:"notification"`
}

// Notify posts the payload to the configured endpoint. It returns true only
// when the gateway acknowledged the message with a 2xx status.
func (g *HTTPGateway) Notify(ctx context.Context, target string, payload Payload) (bool, error) {
	if g.url == "" {
		return false, fmt.Errorf("notify: gateway url not configured")
	}

	body, err := json.Marshal(pushRequest{To: target, Notification: payload})
	if err != nil {
		return false, fmt.Errorf("notify: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.serverKey != "" {
		req.Header.Set("Authorization", "key="+g.serverKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("notify: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("push gateway rejected message",
			zap.String("target", target),
			zap.Int("status", resp.StatusCode),
		)
		return false, fmt.Errorf("notify: gateway returned status %d", resp.StatusCode)
	}

	return true, nil
}

// Noop is a disabled gateway. Every call reports the message as undelivered
// without error, so callers record a failed delivery status and move on.
type Noop struct{}

// Notify implements Gateway.
func (Noop) Notify(ctx context.Context, target string, payload Payload) (bool, error) {
	return false, nil
}
