// AngelaMos | 2026
// provider.go

package user

import (
	"context"
	"errors"

	"github.com/carterperez-dev/blogspace/internal/auth"
)

// AuthProvider adapts the identity service to the shape the session
// package consumes.
type AuthProvider struct {
	svc *Service
}

func NewAuthProvider(svc *Service) *AuthProvider {
	return &AuthProvider{svc: svc}
}

var _ auth.UserProvider = (*AuthProvider)(nil)

func (p *AuthProvider) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	u, err := p.svc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (p *AuthProvider) GetActiveByPhone(
	ctx context.Context,
	phone string,
) (*auth.UserInfo, error) {
	u, err := p.svc.GetActiveByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (p *AuthProvider) VerifyCredentials(
	ctx context.Context,
	phone, password string,
) (*auth.UserInfo, error) {
	u, err := p.svc.VerifyCredentials(ctx, phone, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return toUserInfo(u), nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:       u.ID,
		Phone:    u.Phone,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}
