package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/votofacil/votofacil/internal/common"
)

const (
	defaultSignInURL  = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	defaultRefreshURL = "https://securetoken.googleapis.com/v1/token"
)

// Session holds the tokens issued to an administrator after sign-in.
type Session struct {
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the id token is past (or within a minute of) its
// expiry and needs a refresh before use.
func (s *Session) Expired() bool {
	return time.Now().Add(time.Minute).After(s.ExpiresAt)
}

// AdminAuth signs administrators in against the Identity Toolkit REST API.
// The two URL fields exist so tests can point the client at a local server.
type AdminAuth struct {
	apiKey     string
	httpClient *http.Client

	signInURL  string
	refreshURL string
}

func NewAdminAuth(apiKey string) *AdminAuth {
	return &AdminAuth{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		signInURL:  defaultSignInURL,
		refreshURL: defaultRefreshURL,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type refreshRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// SignIn exchanges the administrator's email and password for a token pair.
func (a *AdminAuth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp signInResponse
	err := a.post(ctx, a.signInURL, &signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return a.session(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
}

// Refresh trades the session's refresh token for a fresh id token.
func (a *AdminAuth) Refresh(ctx context.Context, s *Session) (*Session, error) {
	var resp refreshResponse
	err := a.post(ctx, a.refreshURL, &refreshRequest{
		GrantType:    "refresh_token",
		RefreshToken: s.RefreshToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return a.session(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
}

func (a *AdminAuth) post(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"?key="+a.apiKey, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("error building auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case resp.StatusCode >= 500:
		return common.ErrRemoteUnavailable
	default:
		return fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding auth response: %w", err)
	}
	return nil
}

// session builds a Session, preferring the exp claim inside the id token over
// the expires_in hint so clock drift on the client does not shorten it twice.
func (a *AdminAuth) session(idToken, refreshToken, expiresIn string) (*Session, error) {
	s := &Session{IDToken: idToken, RefreshToken: refreshToken}

	if exp, err := tokenExpiry(idToken); err == nil {
		s.ExpiresAt = exp
		return s, nil
	}

	seconds, err := strconv.Atoi(expiresIn)
	if err != nil {
		return nil, fmt.Errorf("error parsing token lifetime %q: %w", expiresIn, err)
	}
	s.ExpiresAt = time.Now().Add(time.Duration(seconds) * time.Second)
	return s, nil
}

// tokenExpiry reads the exp claim without verifying the signature. The token
// is only introspected locally; the backend verifies it on every request.
func tokenExpiry(idToken string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}
