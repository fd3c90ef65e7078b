package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vipul43/sky-pledge/internal/warehouse"
)

// WorkListRepository reads the gift system ids still waiting to be loaded.
type WorkListRepository struct {
	wh    *warehouse.Warehouse
	query string
}

func NewWorkListRepository(wh *warehouse.Warehouse, query string) *WorkListRepository {
	return &WorkListRepository{wh: wh, query: query}
}

// PendingGiftIDs runs the configured query and returns the first column of
// every row. Rows with a NULL id are skipped.
func (r *WorkListRepository) PendingGiftIDs(ctx context.Context) ([]string, error) {
	result, err := r.wh.Query(ctx, r.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending gifts: %w", err)
	}

	ids := make([]string, 0, len(result.Rows))
	for i, row := range result.Rows {
		if len(row) == 0 || row[0] == nil {
			slog.Warn("Skipping pending row without a gift id", slog.Int("row", i+1))
			continue
		}
		ids = append(ids, fmt.Sprint(row[0]))
	}
	return ids, nil
}
