package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yashrajoria/storefront/models"
)

// AuthClient is the auth capability of the managed backend.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	GetUser(ctx context.Context, accessToken string) (*models.AuthUser, error)
}

// GoTrueClient talks to the /auth/v1 endpoints.
type GoTrueClient struct {
	gw *GatewayClient
}

func NewGoTrueClient(gw *GatewayClient) *GoTrueClient {
	return &GoTrueClient{gw: gw}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a user. When email confirmation is enabled the backend answers
// with the bare user and no tokens; the returned session then has an empty AccessToken.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	var raw struct {
		models.Session
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := c.gw.DoJSON(ctx, http.MethodPost, "/auth/v1/signup", nil, "", nil, credentials{email, password}, &raw); err != nil {
		return nil, err
	}
	session := raw.Session
	if session.User.ID == "" {
		session.User = models.AuthUser{ID: raw.ID, Email: raw.Email}
	}
	return &session, nil
}

// SignIn exchanges email and password for a session.
func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	q := url.Values{"grant_type": []string{"password"}}
	var session models.Session
	if err := c.gw.DoJSON(ctx, http.MethodPost, "/auth/v1/token", q, "", nil, credentials{email, password}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Refresh exchanges a refresh token for a new session. Refresh tokens are single
// use; the returned session carries the replacement.
func (c *GoTrueClient) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	q := url.Values{"grant_type": []string{"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}
	var session models.Session
	if err := c.gw.DoJSON(ctx, http.MethodPost, "/auth/v1/token", q, "", nil, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session's refresh tokens.
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.gw.DoJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil, nil, nil)
}

// GetUser returns the user that owns accessToken.
func (c *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := c.gw.DoJSON(ctx, http.MethodGet, "/auth/v1/user", nil, accessToken, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
