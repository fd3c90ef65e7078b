package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vipul43/sky-pledge/internal/models"
	"github.com/vipul43/sky-pledge/internal/warehouse"
)

var ErrAccessTokenNotFound = errors.New("access token not found")

// AccessTokenRepository appends to and reads from the access-code audit table.
type AccessTokenRepository struct {
	wh          *warehouse.Warehouse
	table       string
	latestQuery string
}

// NewAccessTokenRepository creates the repository. When latestQuery is empty
// the newest row by TIMESTAMP is used.
func NewAccessTokenRepository(wh *warehouse.Warehouse, table string, latestQuery string) *AccessTokenRepository {
	if latestQuery == "" {
		latestQuery = fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT 1",
			wh.Quote(models.ColumnAccessToken), wh.Quote(table), wh.Quote(warehouse.AutoTimestampColumn))
	}
	return &AccessTokenRepository{wh: wh, table: table, latestQuery: latestQuery}
}

// Create appends one audit row
func (r *AccessTokenRepository) Create(ctx context.Context, token models.AccessToken) error {
	if _, err := r.wh.Insert(ctx, r.table, token.Row()); err != nil {
		return fmt.Errorf("failed to record access token: %w", err)
	}
	return nil
}

// Latest returns the most recently recorded access token
func (r *AccessTokenRepository) Latest(ctx context.Context) (string, error) {
	result, err := r.wh.Query(ctx, r.latestQuery)
	if err != nil {
		return "", fmt.Errorf("failed to query access token: %w", err)
	}

	if len(result.Rows) == 0 || len(result.Rows[0]) == 0 || result.Rows[0][0] == nil {
		return "", ErrAccessTokenNotFound
	}

	token := fmt.Sprint(result.Rows[0][0])
	if token == "" {
		return "", ErrAccessTokenNotFound
	}
	return token, nil
}
