// Package auth verifies external identities and manages session cookies.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/thanwa/flashvoc/internal/apperr"
	"github.com/thanwa/flashvoc/internal/config"
	"github.com/thanwa/flashvoc/internal/user"
)

const tokenInfoBaseURL = "https://oauth2.googleapis.com"

// GoogleAuth builds the OAuth consent URL and verifies Google ID tokens
// posted back by the sign-in widget.
type GoogleAuth struct {
	oauth  oauth2.Config
	client *resty.Client
}

// NewGoogleAuth creates a GoogleAuth from config.
func NewGoogleAuth(cfg config.GoogleConfig) *GoogleAuth {
	return &GoogleAuth{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		client: resty.New().
			SetBaseURL(tokenInfoBaseURL).
			SetTimeout(10 * time.Second),
	}
}

// LoginURL returns the Google consent page URL for the given state.
func (g *GoogleAuth) LoginURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// tokenInfo is the subset of Google's tokeninfo response this service reads.
type tokenInfo struct {
	Aud        string `json:"aud"`
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
	Picture    string `json:"picture"`
}

// VerifyCredential checks an ID token against Google's tokeninfo endpoint
// and returns the verified identity. Any verification failure, including
// an audience mismatch, maps to ErrInvalidCredential.
func (g *GoogleAuth) VerifyCredential(ctx context.Context, idToken string) (user.Identity, error) {
	if idToken == "" {
		return user.Identity{}, apperr.ErrInvalidCredential
	}

	var info tokenInfo
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("id_token", idToken).
		SetResult(&info).
		Get("/tokeninfo")
	if err != nil {
		return user.Identity{}, fmt.Errorf("verify credential: %w", err)
	}
	if resp.IsError() {
		return user.Identity{}, apperr.ErrInvalidCredential
	}
	if info.Aud != g.oauth.ClientID || info.Sub == "" {
		return user.Identity{}, apperr.ErrInvalidCredential
	}

	return user.Identity{
		ExternalID: info.Sub,
		Email:      info.Email,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Name:       info.Name,
		PictureURL: info.Picture,
	}, nil
}
