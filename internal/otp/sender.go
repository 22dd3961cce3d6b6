// AngelaMos | 2026
// sender.go

package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/carterperez-dev/blogspace/internal/config"
)

// Sender delivers a one-time code to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

func NewSender(cfg config.SMSConfig, logger *slog.Logger) (Sender, error) {
	switch cfg.Provider {
	case "kavenegar":
		return NewKavenegarSender(cfg), nil
	case "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}

// KavenegarSender delivers codes through the Kavenegar REST gateway.
type KavenegarSender struct {
	client *http.Client
	cfg    config.SMSConfig
}

func NewKavenegarSender(cfg config.SMSConfig) *KavenegarSender {
	return &KavenegarSender{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

type kavenegarResponse struct {
	Return struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"return"`
}

func (s *KavenegarSender) Send(ctx context.Context, phone, code string) error {
	endpoint := fmt.Sprintf(
		"%s/v1/%s/sms/send.json",
		s.cfg.BaseURL,
		s.cfg.APIKey,
	)

	params := url.Values{}
	params.Set("receptor", phone)
	params.Set("sender", s.cfg.Sender)
	params.Set("message", fmt.Sprintf("Your verification code: %s", code))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		nil,
	)
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.URL.RawQuery = params.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send sms: gateway returned %d", resp.StatusCode)
	}

	var body kavenegarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}

	if body.Return.Status != http.StatusOK {
		return fmt.Errorf(
			"send sms: gateway status %d: %s",
			body.Return.Status,
			body.Return.Message,
		)
	}

	return nil
}

// LogSender writes codes to the application log instead of sending them.
// Used in development and tests.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	s.logger.InfoContext(ctx, "otp code issued",
		slog.String("phone", phone),
		slog.String("code", code),
	)
	return nil
}
