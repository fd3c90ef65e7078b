package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultAuthorizeURL = "https://oauth2.sky.blackbaud.com/authorization"
	DefaultTokenURL     = "https://oauth2.sky.blackbaud.com/token"
	DefaultAPIURL       = "https://api.sky.blackbaud.com"
	DefaultRedirectURI  = "https://localhost:5000/auth/callback"

	DefaultAccessTable = "ADV_BB_ACCESS_CODE"
	DefaultGiftTable   = "RVW_SKY_PLEDGE"
)

type Config struct {
	DatabaseURL string

	ClientID        string
	ClientSecret    string
	SubscriptionKey string
	AuthorizeURL    string
	TokenURL        string
	APIURL          string
	RedirectURI     string

	PaymentQuery string
	AuthQuery    string // optional override for the latest-token lookup

	AccessTable string
	GiftTable   string

	HTTPTimeout int // seconds

	SentryDSN     string
	TelemetryHost string
	TelemetryPort string
}

// Load reads configuration from environment variables. envFile is loaded
// first when it exists; an empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	// Load .env file if exists (ignore error in production)
	if envFile == "" {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	dbURL, err := databaseURL()
	if err != nil {
		return nil, err
	}

	subscriptionKey := os.Getenv("BB_API_SUB")
	if subscriptionKey == "" {
		return nil, fmt.Errorf("BB_API_SUB is required")
	}

	paymentQuery := getEnv("DW_PAYMENT_QUERY", os.Getenv("ORACLE_PAYMENT_QUERY"))
	if paymentQuery == "" {
		return nil, fmt.Errorf("DW_PAYMENT_QUERY is required")
	}

	timeout := 30
	if raw := os.Getenv("HTTP_TIMEOUT_SECONDS"); raw != "" {
		timeout, err = strconv.Atoi(raw)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be a positive integer, got %q", raw)
		}
	}

	return &Config{
		DatabaseURL:     dbURL,
		ClientID:        os.Getenv("BB_CLIENT_ID"),
		ClientSecret:    os.Getenv("BB_CLIENT_SECRET"),
		SubscriptionKey: subscriptionKey,
		AuthorizeURL:    getEnv("BB_AUTHORIZE_URL", DefaultAuthorizeURL),
		TokenURL:        getEnv("BB_TOKEN_URL", DefaultTokenURL),
		APIURL:          getEnv("BB_API_URL", DefaultAPIURL),
		RedirectURI:     getEnv("BB_REDIRECT_URI", DefaultRedirectURI),
		PaymentQuery:    paymentQuery,
		AuthQuery:       os.Getenv("BB_AUTH_QUERY"),
		AccessTable:     getEnv("BB_ACCESS_TABLE", DefaultAccessTable),
		GiftTable:       getEnv("BB_GIFT_TABLE", DefaultGiftTable),
		HTTPTimeout:     timeout,
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		TelemetryHost:   os.Getenv("TELEMETRY_HOST"),
		TelemetryPort:   os.Getenv("TELEMETRY_PORT"),
	}, nil
}

// ValidateOAuth reports whether the interactive authorization step can run.
func (c *Config) ValidateOAuth() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("BB_CLIENT_ID and BB_CLIENT_SECRET are required for authorization")
	}
	return nil
}

// ValidateMigrate reports whether the embedded migrations create the tables
// this configuration reads and writes. They only know the default names.
func (c *Config) ValidateMigrate() error {
	if c.AccessTable != DefaultAccessTable || c.GiftTable != DefaultGiftTable {
		return fmt.Errorf("migrations only create %s and %s, unset BB_ACCESS_TABLE and BB_GIFT_TABLE or create %s and %s yourself",
			DefaultAccessTable, DefaultGiftTable, c.AccessTable, c.GiftTable)
	}
	return nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles a postgres URL
// from the DW_* variables.
func databaseURL() (string, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL, nil
	}

	host := os.Getenv("DW_HOST")
	service := os.Getenv("DW_SERV")
	user := os.Getenv("DW_USER")
	if host == "" || service == "" || user == "" {
		return "", fmt.Errorf("DATABASE_URL or DW_HOST, DW_SERV and DW_USER are required")
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, os.Getenv("DW_PASS")),
		Host:   net.JoinHostPort(host, getEnv("DW_PORT", "5432")),
		Path:   "/" + service,
	}
	return u.String(), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
