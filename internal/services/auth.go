package services

import (
	"context"
	"fmt"

	"github.com/votofacil/votofacil/internal/backend"
)

// Authenticator is the slice of backend.AdminAuth the service needs.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*backend.Session, error)
	Refresh(ctx context.Context, s *backend.Session) (*backend.Session, error)
}

// AuthService keeps the administrator session for the management tools and
// refreshes it transparently when the id token runs out.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	LoggedIn() bool

	// Token returns a currently valid id token, refreshing first if needed.
	Token(ctx context.Context) (string, error)
}

type authService struct {
	auth    Authenticator
	session *backend.Session
}

func NewAuthService(auth Authenticator) AuthService {
	return &authService{auth: auth}
}

func (s *authService) Login(ctx context.Context, email, password string) error {
	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("error signing in: %w", err)
	}
	s.session = session
	return nil
}

func (s *authService) LoggedIn() bool {
	return s.session != nil
}

func (s *authService) Token(ctx context.Context) (string, error) {
	if s.session == nil {
		return "", fmt.Errorf("not logged in")
	}

	if s.session.Expired() {
		session, err := s.auth.Refresh(ctx, s.session)
		if err != nil {
			return "", fmt.Errorf("error refreshing session: %w", err)
		}
		s.session = session
	}
	return s.session.IDToken, nil
}
