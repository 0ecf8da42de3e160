package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/config"
)

// SupabaseProvider talks to a GoTrue-compatible auth service. Accounts are
// created through the admin endpoint with the email pre-confirmed, since
// no outbound mail server is configured.
type SupabaseProvider struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     *http.Client
}

func NewSupabaseProvider(cfg config.IdentityConfig) *SupabaseProvider {
	return &SupabaseProvider{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type gotrueError struct {
	Message   string `json:"msg"`
	ErrorCode string `json:"error_code"`
	Error_    string `json:"error"`
	ErrorDesc string `json:"error_description"`
}

func (e gotrueError) message() string {
	for _, m := range []string{e.Message, e.ErrorDesc, e.Error_} {
		if m != "" {
			return m
		}
	}
	return "identity request failed"
}

func (p *SupabaseProvider) VerifyToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var u gotrueUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return toUser(u), nil
}

func (p *SupabaseProvider) CreateUser(ctx context.Context, email, password, name string) (*User, error) {
	payload := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]any{"name": name},
	}

	body, status, err := p.post(ctx, "/auth/v1/admin/users", p.serviceRoleKey, payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		var ge gotrueError
		_ = json.Unmarshal(body, &ge)
		return nil, fmt.Errorf("create user: %s", ge.message())
	}

	var u gotrueUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode created user: %w", err)
	}
	return toUser(u), nil
}

func (p *SupabaseProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{"email": email, "password": password}

	body, status, err := p.post(ctx, "/auth/v1/token?grant_type=password", p.anonKey, payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		var ge gotrueError
		_ = json.Unmarshal(body, &ge)
		return nil, categorizeSignInError(ge)
	}

	var out struct {
		AccessToken string     `json:"access_token"`
		User        gotrueUser `json:"user"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("sign in: no session issued")
	}
	return &Session{AccessToken: out.AccessToken, User: *toUser(out.User)}, nil
}

// categorizeSignInError maps provider messages to the sentinel errors the
// workflow shows distinct recovery hints for.
func categorizeSignInError(ge gotrueError) error {
	msg := strings.ToLower(ge.message())
	switch {
	case ge.ErrorCode == "invalid_credentials" || strings.Contains(msg, "invalid login credentials"):
		return ErrInvalidCredentials
	case ge.ErrorCode == "email_not_confirmed" || strings.Contains(msg, "email not confirmed"):
		return ErrEmailNotConfirmed
	default:
		return fmt.Errorf("sign in: %s", ge.message())
	}
}

func (p *SupabaseProvider) post(ctx context.Context, path, key string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("apikey", key)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("identity request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func toUser(u gotrueUser) *User {
	name, _ := u.UserMetadata["name"].(string)
	return &User{ID: u.ID, Email: u.Email, Name: name}
}

var _ Provider = (*SupabaseProvider)(nil)
