package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vipul43/sky-pledge/internal/models"
)

// TokenExchanger builds the authorization URL and redeems codes
type TokenExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.AccessToken, error)
}

// CodeReader obtains the authorization code from outside the process
type CodeReader interface {
	ReadCode(ctx context.Context, authURL string) (string, error)
}

// AccessTokenStore records and looks up access tokens
type AccessTokenStore interface {
	Create(ctx context.Context, token models.AccessToken) error
	Latest(ctx context.Context) (string, error)
}

type Authorizer struct {
	exchanger  TokenExchanger
	codeReader CodeReader
	tokenStore AccessTokenStore
	newState   func() string
}

func NewAuthorizer(exchanger TokenExchanger, codeReader CodeReader, tokenStore AccessTokenStore) *Authorizer {
	return &Authorizer{
		exchanger:  exchanger,
		codeReader: codeReader,
		tokenStore: tokenStore,
		newState:   uuid.NewString,
	}
}

// Authorize runs the interactive authorization-code exchange and records the
// resulting tokens. Every failure here is fatal to the run.
func (a *Authorizer) Authorize(ctx context.Context) (*models.AccessToken, error) {
	state := a.newState()
	authURL := a.exchanger.AuthCodeURL(state)

	code, err := a.codeReader.ReadCode(ctx, authURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}

	token, err := a.exchanger.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := a.tokenStore.Create(ctx, *token); err != nil {
		return nil, err
	}

	slog.Info("Access token recorded",
		slog.String("user_id", token.UserID),
		slog.String("environment", token.EnvironmentName),
	)
	return token, nil
}
