package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// GoogleUserinfoURL is the OpenID Connect userinfo endpoint.
const GoogleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Profile is the provider-neutral identity returned after a successful
// exchange. ExternalID is the provider's stable subject identifier.
type Profile struct {
	ExternalID string
	Email      string
	Name       string
	PictureURL string
}

// Provider is the identity provider adapter used by the auth handler.
// GoogleProvider is the only production implementation; tests use fakes.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// googleUserinfo is the portion of the userinfo response we care about.
//
// Docs: https://developers.google.com/identity/openid-connect/openid-connect#obtainuserinfo
type googleUserinfo struct {
	Sub     string `json:"sub"`     // stable per Google account
	Email   string `json:"email"`   // primary email, present with the "email" scope
	Name    string `json:"name"`    // display name
	Picture string `json:"picture"` // avatar URL, may be empty
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization Code flow.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
//  1. The server redirects the browser to Google's consent screen with our
//     ClientID, the requested scopes and a signed state.
//  2. The user approves (or denies) the request on Google.
//  3. Google redirects back to CallbackURL with a short-lived "code".
//  4. The server exchanges the code for an access token (server-to-server,
//     using ClientSecret).
//  5. The server calls the userinfo endpoint with that token.
//
// The access token is used once and discarded. It never reaches the browser.
type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
//
// Credentials come from an OAuth client in the Google Cloud console
// ("APIs & Services" → "Credentials"). callbackURL must match one of the
// Authorized redirect URIs exactly, e.g.
// "http://localhost:3000/auth/google/callback".
//
// Scopes:
//   - "openid"  → the stable "sub" identifier
//   - "email"   → the primary email address
//   - "profile" → display name and picture
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userinfoURL: GoogleUserinfoURL,
	}
}

// WithEndpoints points the provider at different token/auth/userinfo URLs.
// Used by tests to stand in an httptest server for Google.
func (p *GoogleProvider) WithEndpoints(endpoint oauth2.Endpoint, userinfoURL string) *GoogleProvider {
	p.config.Endpoint = endpoint
	p.userinfoURL = userinfoURL
	return p
}

// AuthURL returns the consent screen URL to redirect the user to.
// state is echoed back by Google on the callback and verified there.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the user's Google profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	if code == "" {
		return nil, errors.New("auth: missing authorization code")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// config.Client adds "Authorization: Bearer <token>" to every request.
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo: %w", err)
	}

	if info.Sub == "" {
		return nil, errors.New("auth: Google returned a profile without a subject")
	}
	if info.Email == "" {
		return nil, errors.New("auth: Google returned a profile without an email")
	}

	return &Profile{
		ExternalID: info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		PictureURL: info.Picture,
	}, nil
}
