package sky

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/vipul43/sky-pledge/internal/models"
)

type Authorizer struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func NewAuthorizer(clientID, clientSecret, authorizeURL, tokenURL, redirectURI string, httpClient *http.Client) *Authorizer {
	return &Authorizer{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authorizeURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL returns the page the user must visit to grant access.
func (a *Authorizer) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for tokens. SKY returns the user and
// environment alongside the standard fields.
func (a *Authorizer) Exchange(ctx context.Context, code string) (*models.AccessToken, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return &models.AccessToken{
		UserID:          extraString(token, "user_id"),
		AccessToken:     token.AccessToken,
		RefreshToken:    token.RefreshToken,
		EnvironmentName: extraString(token, "environment_name"),
		Email:           extraString(token, "email"),
	}, nil
}

func extraString(token *oauth2.Token, key string) string {
	switch v := token.Extra(key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
