// AngelaMos | 2026
// service.go

package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/blogspace/internal/auth"
	"github.com/carterperez-dev/blogspace/internal/config"
	"github.com/carterperez-dev/blogspace/internal/core"
	"github.com/carterperez-dev/blogspace/internal/user"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrUnknownPhone = errors.New("no active account for phone")
	ErrCodeMismatch = errors.New("code does not match")
	ErrCodeExpired  = errors.New("code has expired")
)

// ThrottledError rejects a code request while an earlier code for the
// same phone is still inside its window. It carries when the caller may
// try again.
type ThrottledError struct {
	NextAllowedAt time.Time
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf(
		"a code was already sent; retry after %s",
		e.NextAllowedAt.Format(time.RFC3339),
	)
}

// SessionIssuer mints a token pair for a verified user. Satisfied by the
// session service.
type SessionIssuer interface {
	IssueSession(ctx context.Context, u *auth.UserInfo) (*auth.AuthResponse, error)
}

type Service struct {
	repo     Repository
	users    auth.UserProvider
	sessions SessionIssuer
	sender   Sender
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	users auth.UserProvider,
	sessions SessionIssuer,
	sender Sender,
	cfg config.OTPConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		sessions: sessions,
		sender:   sender,
		ttl:      cfg.CodeTTL,
		logger:   logger,
	}
}

// RequestCode issues a fresh one-time code for an active account. While
// the latest code for the phone is still live no new one is issued; the
// code window doubles as the request throttle.
func (s *Service) RequestCode(ctx context.Context, phone string) error {
	if !user.PhoneRE.MatchString(phone) {
		return fmt.Errorf("request code: %w", ErrInvalidPhone)
	}

	if _, err := s.users.GetActiveByPhone(ctx, phone); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("request code: %w", ErrUnknownPhone)
		}
		return fmt.Errorf("request code: %w", err)
	}

	latest, err := s.repo.LatestByPhone(ctx, phone)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("request code: %w", err)
	}
	if latest != nil && !latest.Expired(s.ttl, time.Now()) {
		return &ThrottledError{
			NextAllowedAt: latest.CreatedAt.Add(s.ttl),
		}
	}

	value, err := generateCode()
	if err != nil {
		return fmt.Errorf("request code: %w", err)
	}

	code := &Code{
		ID:    uuid.New().String(),
		Phone: phone,
		Code:  value,
	}
	if err := s.repo.Insert(ctx, code); err != nil {
		return fmt.Errorf("request code: %w", err)
	}

	// Delivery is fire and forget: the row is already committed, so a
	// gateway hiccup must not fail the request.
	go s.deliver(phone, value)

	return nil
}

// RedeemCode exchanges a live code for a session. Codes are matched
// against the ledger but never marked used: the same code redeems any
// number of times until its window closes.
func (s *Service) RedeemCode(
	ctx context.Context,
	phone, codeValue string,
) (*auth.AuthResponse, error) {
	if !user.PhoneRE.MatchString(phone) {
		return nil, fmt.Errorf("redeem code: %w", ErrInvalidPhone)
	}

	code, err := s.repo.LatestByPhoneAndCode(ctx, phone, codeValue)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("redeem code: %w", ErrCodeMismatch)
		}
		return nil, fmt.Errorf("redeem code: %w", err)
	}

	if code.Expired(s.ttl, time.Now()) {
		return nil, fmt.Errorf("redeem code: %w", ErrCodeExpired)
	}

	u, err := s.users.GetActiveByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("redeem code: %w", ErrUnknownPhone)
		}
		return nil, fmt.Errorf("redeem code: %w", err)
	}

	resp, err := s.sessions.IssueSession(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("redeem code: %w", err)
	}

	return resp, nil
}

// StartCleanup trims ledger rows older than a day on an interval until
// the context is cancelled.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.repo.DeleteOlderThan(
				ctx,
				time.Now().Add(-24*time.Hour),
			)
			if err != nil {
				s.logger.ErrorContext(ctx, "otp cleanup failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if deleted > 0 {
				s.logger.InfoContext(ctx, "otp history trimmed",
					slog.Int64("count", deleted),
				)
			}
		}
	}
}

func (s *Service) deliver(phone, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.sender.Send(ctx, phone, code); err != nil {
		s.logger.Error("otp delivery failed",
			slog.String("phone", phone),
			slog.String("error", err.Error()),
		)
	}
}

// generateCode draws a uniform six-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
