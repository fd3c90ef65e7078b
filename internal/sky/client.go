package sky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/vipul43/sky-pledge/internal/models"
)

const SubscriptionKeyHeader = "Bb-Api-Subscription-Key"

type Client struct {
	baseURL         string
	subscriptionKey string
	httpClient      *http.Client
}

func NewClient(baseURL, subscriptionKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		subscriptionKey: subscriptionKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HTTPClient exposes the client used for SKY calls so the token exchange
// shares its timeout.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// FetchGift fetches a single gift by its system id
func (c *Client) FetchGift(ctx context.Context, accessToken string, giftSystemID string) (*models.Gift, error) {
	endpoint := fmt.Sprintf("%s/gift/v1/gifts/%s?%s", c.baseURL, url.PathEscape(giftSystemID),
		url.Values{"gift_id": {giftSystemID}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(SubscriptionKeyHeader, c.subscriptionKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("gift %s: %w", giftSystemID, err)
	}

	var gift models.Gift
	if err := json.NewDecoder(resp.Body).Decode(&gift); err != nil {
		return nil, fmt.Errorf("failed to decode gift %s: %w", giftSystemID, err)
	}

	return &gift, nil
}
