package service

import (
	"context"
	"time"

	"github.com/vipul43/sky-pledge/internal/models"
)

type mockTokenExchanger struct {
	authCodeURLFunc func(state string) string
	exchangeFunc    func(ctx context.Context, code string) (*models.AccessToken, error)
}

func (m *mockTokenExchanger) AuthCodeURL(state string) string {
	if m.authCodeURLFunc != nil {
		return m.authCodeURLFunc(state)
	}
	return "https://oauth2.example.com/authorization?state=" + state
}

func (m *mockTokenExchanger) Exchange(ctx context.Context, code string) (*models.AccessToken, error) {
	return m.exchangeFunc(ctx, code)
}

type mockCodeReader struct {
	readCodeFunc func(ctx context.Context, authURL string) (string, error)
}

func (m *mockCodeReader) ReadCode(ctx context.Context, authURL string) (string, error) {
	return m.readCodeFunc(ctx, authURL)
}

type mockTokenStore struct {
	created   []models.AccessToken
	createErr error
	latest    string
	latestErr error
}

func (m *mockTokenStore) Create(ctx context.Context, token models.AccessToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, token)
	return nil
}

func (m *mockTokenStore) Latest(ctx context.Context) (string, error) {
	return m.latest, m.latestErr
}

type mockWorkList struct {
	ids []string
	err error
}

func (m *mockWorkList) PendingGiftIDs(ctx context.Context) ([]string, error) {
	return m.ids, m.err
}

type mockGiftFetcher struct {
	calls         []string
	fetchGiftFunc func(ctx context.Context, accessToken string, giftSystemID string) (*models.Gift, error)
}

func (m *mockGiftFetcher) FetchGift(ctx context.Context, accessToken string, giftSystemID string) (*models.Gift, error) {
	m.calls = append(m.calls, giftSystemID)
	if m.fetchGiftFunc != nil {
		return m.fetchGiftFunc(ctx, accessToken, giftSystemID)
	}
	return testGift(giftSystemID), nil
}

// memoryGiftStore appends rows like the staging table does: no dedup.
type memoryGiftStore struct {
	rows        []models.GiftRecord
	attempts    []string
	createFunc  func(record models.GiftRecord) error
	truncated   bool
	truncateErr error
}

func (m *memoryGiftStore) Create(ctx context.Context, record models.GiftRecord) error {
	m.attempts = append(m.attempts, record.GiftSystemID)
	if m.createFunc != nil {
		if err := m.createFunc(record); err != nil {
			return err
		}
	}
	m.rows = append(m.rows, record)
	return nil
}

func (m *memoryGiftStore) Exists(ctx context.Context, giftSystemID string) (bool, error) {
	for _, row := range m.rows {
		if row.GiftSystemID == giftSystemID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryGiftStore) Truncate(ctx context.Context) error {
	if m.truncateErr != nil {
		return m.truncateErr
	}
	m.truncated = true
	m.rows = nil
	return nil
}

type countingMetrics struct {
	incr   map[string]int
	counts map[string]int64
}

func (c *countingMetrics) Timing(name string, value time.Duration, tags map[string]string) {}

func (c *countingMetrics) Incr(name string, tags map[string]string) {
	if c.incr == nil {
		c.incr = make(map[string]int)
	}
	c.incr[name]++
}

func (c *countingMetrics) Count(name string, value int64, tags map[string]string) {
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[name] += value
}

func testGift(id string) *models.Gift {
	return &models.Gift{
		ID:          id,
		LookupID:    "L-" + id,
		LinkedGifts: []string{"P-" + id},
		Amount:      models.Amount{Value: 100},
		Date:        "2023-05-17T00:00:00Z",
		Type:        "PledgePayment",
	}
}
