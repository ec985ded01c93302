package zulip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"build-notifier/internal/domain/model"
	"build-notifier/internal/domain/ports"
)

const messagesPath = "/api/v1/messages"

// ErrNotConfigured is returned when no server URL is configured.
var ErrNotConfigured = errors.New("zulip: not configured")

// Client posts stream messages to a Zulip server.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     ports.Logger
}

var _ ports.Dispatcher = (*Client)(nil)

// NewClient creates a Zulip client. ratePerSec <= 0 disables client-side rate limiting.
func NewClient(timeout time.Duration, ratePerSec int, logger ports.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger,
	}
}

type apiResponse struct {
	Result string `json:"result"`
	Msg    string `json:"msg"`
	ID     int64  `json:"id"`
}

// Send posts msg to its stream and topic.
func (c *Client) Send(ctx context.Context, creds model.ZulipCredentials, msg model.Message) error {
	if creds.URL == "" {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	form := url.Values{}
	form.Set("type", "stream")
	form.Set("to", msg.Stream)
	form.Set("topic", msg.Topic)
	form.Set("content", msg.Content)

	endpoint := strings.TrimSuffix(creds.URL, "/") + messagesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(creds.Email, creds.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body apiResponse
	_ = json.Unmarshal(data, &body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if body.Msg != "" {
			return fmt.Errorf("zulip returned status %d: %s", resp.StatusCode, body.Msg)
		}
		return fmt.Errorf("zulip returned status %d", resp.StatusCode)
	}
	if body.Result != "" && body.Result != "success" {
		return fmt.Errorf("zulip rejected message: %s", body.Msg)
	}

	c.logger.Info(ctx, "message sent to zulip", "stream", msg.Stream, "topic", msg.Topic, "id", body.ID)
	return nil
}
