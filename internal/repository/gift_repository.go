package repository

import (
	"context"
	"fmt"

	"github.com/vipul43/sky-pledge/internal/models"
	"github.com/vipul43/sky-pledge/internal/warehouse"
)

type GiftRepository struct {
	wh    *warehouse.Warehouse
	table string
}

func NewGiftRepository(wh *warehouse.Warehouse, table string) *GiftRepository {
	return &GiftRepository{wh: wh, table: table}
}

// Create inserts one staging row. Repeated calls with the same gift insert
// duplicates.
func (r *GiftRepository) Create(ctx context.Context, record models.GiftRecord) error {
	_, err := r.wh.Insert(ctx, r.table, record.Row())
	return err
}

// Exists reports whether a row for giftSystemID is already staged
func (r *GiftRepository) Exists(ctx context.Context, giftSystemID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? LIMIT 1",
		r.wh.Quote(r.table), r.wh.Quote(models.ColumnGiftSystemID))

	result, err := r.wh.Query(ctx, query, giftSystemID)
	if err != nil {
		return false, fmt.Errorf("failed to look up gift %s: %w", giftSystemID, err)
	}
	return len(result.Rows) > 0, nil
}

// Truncate clears the staging table
func (r *GiftRepository) Truncate(ctx context.Context) error {
	return r.wh.Truncate(ctx, r.table)
}
