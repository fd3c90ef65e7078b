package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vipul43/sky-pledge/internal/metrics"
	"github.com/vipul43/sky-pledge/internal/models"
)

// GiftFetcher retrieves a gift from the SKY API
type GiftFetcher interface {
	FetchGift(ctx context.Context, accessToken string, giftSystemID string) (*models.Gift, error)
}

// GiftStore writes staging rows
type GiftStore interface {
	Create(ctx context.Context, record models.GiftRecord) error
	Exists(ctx context.Context, giftSystemID string) (bool, error)
	Truncate(ctx context.Context) error
}

// WorkList lists the gift system ids waiting to be loaded
type WorkList interface {
	PendingGiftIDs(ctx context.Context) ([]string, error)
}

type LoadOptions struct {
	// Truncate clears the staging table before loading.
	Truncate bool
	// SkipLoaded skips ids that already have a staging row.
	SkipLoaded bool
}

// Summary describes one run of the load loop.
type Summary struct {
	Processed int
	Loaded    int
	Failed    int
	Skipped   int
	Failures  map[string]error
}

type PledgeLoader struct {
	tokenStore AccessTokenStore
	workList   WorkList
	fetcher    GiftFetcher
	giftStore  GiftStore
	metrics    metrics.Client
	out        io.Writer
}

func NewPledgeLoader(
	tokenStore AccessTokenStore,
	workList WorkList,
	fetcher GiftFetcher,
	giftStore GiftStore,
	metricsClient metrics.Client,
	out io.Writer,
) *PledgeLoader {
	if metricsClient == nil {
		metricsClient = metrics.NullClient{}
	}
	return &PledgeLoader{
		tokenStore: tokenStore,
		workList:   workList,
		fetcher:    fetcher,
		giftStore:  giftStore,
		metrics:    metricsClient,
		out:        out,
	}
}

// Run loads every pending gift. Setup failures abort the run; a failure on a
// single gift is reported and the loop moves on.
func (l *PledgeLoader) Run(ctx context.Context, opts LoadOptions) (*Summary, error) {
	start := time.Now()

	accessToken, err := l.tokenStore.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	if opts.Truncate {
		if err := l.giftStore.Truncate(ctx); err != nil {
			return nil, fmt.Errorf("failed to truncate staging table: %w", err)
		}
		slog.Info("Staging table truncated")
	}

	ids, err := l.workList.PendingGiftIDs(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Found pending gifts", slog.Int("count", len(ids)))
	l.metrics.Count("gift.pending", int64(len(ids)), nil)

	summary := &Summary{Failures: make(map[string]error)}
	var runErr error
	for _, id := range ids {
		// A cancelled run still reports how far it got.
		if runErr = ctx.Err(); runErr != nil {
			break
		}

		summary.Processed++
		n := summary.Processed

		if opts.SkipLoaded {
			exists, err := l.giftStore.Exists(ctx, id)
			if err != nil {
				l.fail(summary, n, id, err)
				continue
			}
			if exists {
				summary.Skipped++
				l.metrics.Incr("gift.skipped", nil)
				fmt.Fprintf(l.out, "%d) %s: Gift Skipped!\n", n, id)
				continue
			}
		}

		if err := l.loadGift(ctx, accessToken, id); err != nil {
			l.fail(summary, n, id, err)
			continue
		}

		summary.Loaded++
		l.metrics.Incr("gift.loaded", nil)
		fmt.Fprintf(l.out, "%d) %s: Gift Loaded!\n", n, id)
	}

	fmt.Fprintf(l.out, "\n%d Objects Processed!\n", summary.Processed)

	if runErr != nil {
		slog.Warn("Load interrupted", slog.Int("processed", summary.Processed), slog.Int("pending", len(ids)))
		return summary, runErr
	}

	l.metrics.Timing("run.duration", time.Since(start), nil)
	slog.Info("Load finished",
		slog.Int("processed", summary.Processed),
		slog.Int("loaded", summary.Loaded),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped", summary.Skipped),
		slog.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

// loadGift fetches, maps and inserts a single gift
func (l *PledgeLoader) loadGift(ctx context.Context, accessToken string, id string) error {
	gift, err := l.fetcher.FetchGift(ctx, accessToken, id)
	if err != nil {
		return err
	}

	record, err := gift.Record()
	if err != nil {
		return fmt.Errorf("failed to map gift %s: %w", id, err)
	}

	return l.giftStore.Create(ctx, record)
}

func (l *PledgeLoader) fail(summary *Summary, n int, id string, err error) {
	summary.Failed++
	summary.Failures[id] = err
	l.metrics.Incr("gift.failed", nil)
	slog.Warn("Failed to load gift", slog.String("gift_system_id", id), slog.Any("err", err))
	fmt.Fprintf(l.out, "%d) %s: Gift Failed!\n", n, id)
}
