package metrics

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
)

const (
	// DefaultNamespace is prefixed to every metric name.
	DefaultNamespace = "sky_pledge."
	DefaultPort      = "8125"
)

type Client interface {
	Timing(name string, value time.Duration, tags map[string]string)
	Incr(name string, tags map[string]string)
	Count(name string, value int64, tags map[string]string)
}

type NullClient struct{}

func (NullClient) Timing(name string, value time.Duration, tags map[string]string) {}

func (NullClient) Incr(name string, tags map[string]string) {}

func (NullClient) Count(name string, value int64, tags map[string]string) {}

// New returns a DogStatsD client when host is set and a NullClient otherwise.
func New(host, port string) Client {
	if host == "" {
		return NullClient{}
	}
	if port == "" {
		port = DefaultPort
	}

	address := fmt.Sprintf("%s:%s", host, port)
	client, err := statsd.New(address, statsd.WithNamespace(DefaultNamespace))
	if err != nil {
		slog.Warn("Failed to create statsd client, metrics disabled", slog.String("address", address), slog.Any("err", err))
		return NullClient{}
	}

	slog.Debug("Sending metrics to statsd", slog.String("address", address))
	return &statsClient{client: client}
}

type statsClient struct {
	client *statsd.Client
}

func (s *statsClient) Timing(name string, value time.Duration, tags map[string]string) {
	_ = s.client.Timing(name, value, toDatadogTags(tags), 1)
}

func (s *statsClient) Incr(name string, tags map[string]string) {
	_ = s.client.Incr(name, toDatadogTags(tags), 1)
}

func (s *statsClient) Count(name string, value int64, tags map[string]string) {
	_ = s.client.Count(name, value, toDatadogTags(tags), 1)
}

// Close flushes buffered metrics.
func Close(c Client) {
	if s, ok := c.(*statsClient); ok {
		_ = s.client.Close()
	}
}

func toDatadogTags(tags map[string]string) []string {
	retTags := make([]string, 0, len(tags))
	for key, val := range tags {
		retTags = append(retTags, fmt.Sprintf("%s:%s", key, val))
	}
	sort.Strings(retTags)
	return retTags
}
