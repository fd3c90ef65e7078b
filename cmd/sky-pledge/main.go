package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"

	"github.com/vipul43/sky-pledge/internal/config"
	"github.com/vipul43/sky-pledge/internal/console"
	"github.com/vipul43/sky-pledge/internal/database"
	"github.com/vipul43/sky-pledge/internal/logger"
	"github.com/vipul43/sky-pledge/internal/metrics"
	"github.com/vipul43/sky-pledge/internal/repository"
	"github.com/vipul43/sky-pledge/internal/service"
	"github.com/vipul43/sky-pledge/internal/sky"
	"github.com/vipul43/sky-pledge/internal/warehouse"
)

type options struct {
	EnvFile    string `long:"env-file" description:"path to a .env file (defaults to ./.env when present)"`
	Code       string `long:"code" description:"authorization code, skips the interactive prompt"`
	ReuseToken bool   `long:"reuse-token" description:"skip authorization and use the latest recorded access token"`
	Truncate   bool   `long:"truncate" description:"clear the gift staging table before loading"`
	SkipLoaded bool   `long:"skip-loaded" description:"skip gifts that already have a staging row"`
	Migrate    bool   `long:"migrate" description:"create the audit and staging tables when missing (default table names only)"`
	Verbose    bool   `short:"v" long:"verbose" description:"debug logging"`
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		logger.Fatal("Run failed", slog.Any("err", err))
	}
}

func parseArgs(args []string) (options, error) {
	var opts options
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return options{}, err
	}
	if opts.ReuseToken && opts.Code != "" {
		err := fmt.Errorf("--code and --reuse-token cannot be used together")
		fmt.Fprintln(os.Stderr, err)
		return options{}, err
	}
	return opts, nil
}

func run(opts options) error {
	// Load configuration
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return err
	}

	log, loggingToSentry := logger.NewLogger(opts.Verbose, cfg.SentryDSN)
	slog.SetDefault(log.With(slog.String("run_id", uuid.NewString())))
	if loggingToSentry {
		defer sentry.Flush(logger.FlushTimeout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to warehouse
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	wh := warehouse.New(db)
	defer wh.Close()

	slog.Info("Warehouse connected")

	if opts.Migrate {
		if err := cfg.ValidateMigrate(); err != nil {
			return err
		}
		slog.Info("Running database migrations...")
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	metricsClient := metrics.New(cfg.TelemetryHost, cfg.TelemetryPort)
	defer metrics.Close(metricsClient)

	// Initialize repositories
	tokenRepo := repository.NewAccessTokenRepository(wh, cfg.AccessTable, cfg.AuthQuery)
	giftRepo := repository.NewGiftRepository(wh, cfg.GiftTable)
	workListRepo := repository.NewWorkListRepository(wh, cfg.PaymentQuery)

	skyClient := sky.NewClient(cfg.APIURL, cfg.SubscriptionKey, time.Duration(cfg.HTTPTimeout)*time.Second)

	if !opts.ReuseToken {
		if err := cfg.ValidateOAuth(); err != nil {
			return err
		}

		var codeReader service.CodeReader = console.NewCodePrompt(os.Stdin, os.Stdout)
		if opts.Code != "" {
			codeReader = console.StaticCode(opts.Code)
		}

		skyAuthorizer := sky.NewAuthorizer(cfg.ClientID, cfg.ClientSecret, cfg.AuthorizeURL, cfg.TokenURL, cfg.RedirectURI, skyClient.HTTPClient())
		if _, err := service.NewAuthorizer(skyAuthorizer, codeReader, tokenRepo).Authorize(ctx); err != nil {
			return err
		}
	}

	loader := service.NewPledgeLoader(tokenRepo, workListRepo, skyClient, giftRepo, metricsClient, os.Stdout)
	_, err = loader.Run(ctx, service.LoadOptions{
		Truncate:   opts.Truncate,
		SkipLoaded: opts.SkipLoaded,
	})
	return err
}
