package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken covers missing, malformed and expired session tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrInvalidCredentials is a failed password sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailNotConfirmed is a sign-in attempt on an unconfirmed account.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Session struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Provider is the identity collaborator: token introspection for the
// service middleware, admin user creation for signup, password grant for
// the client workflow.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
	CreateUser(ctx context.Context, email, password, name string) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}
