// Package main implements tweettail, a feed tailer built on the tweetstream
// client.
//
// It connects to one of the streaming variants, prints each record to
// stdout, and reconnects on faults with the delay schedule the error calls
// for. Credentials and filter predicates come from a YAML config file:
//
//	consumer_key: "..."
//	consumer_secret: "..."
//	access_token: "..."
//	access_secret: "..."
//	track: [golang, gopher]
//	follow: ["12345"]
//
// Run with:
//
//	tweettail -config tweetstream.yaml
//	tweettail -config tweetstream.yaml -user
//	tweettail -config tweetstream.yaml -raw -metrics :9102
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	tweetstream "github.com/domrout/tweetstream-auth"
)

type fileConfig struct {
	ConsumerKey    string   `yaml:"consumer_key"`
	ConsumerSecret string   `yaml:"consumer_secret"`
	AccessToken    string   `yaml:"access_token"`
	AccessSecret   string   `yaml:"access_secret"`
	Track          []string `yaml:"track"`
	Follow         []string `yaml:"follow"`
	Locations      []string `yaml:"locations"`
	Endpoint       string   `yaml:"endpoint"`
	UserAgent      string   `yaml:"user_agent"`
}

func main() {
	var (
		configPath  = flag.String("config", "tweetstream.yaml", "path to the YAML config file")
		userFeed    = flag.Bool("user", false, "tail the authenticated account's user stream")
		raw         = flag.Bool("raw", false, "print raw wire lines instead of status text")
		timeout     = flag.Duration("timeout", 90*time.Second, "per-read socket timeout (0 disables)")
		metricsAddr = flag.String("metrics", "", "address to serve Prometheus metrics on (empty disables)")
		verbose     = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	logger := newLogger(*verbose)

	// main holds no defers: run carries the cleanup, so exiting nonzero
	// here cannot skip it.
	err := run(logger, *configPath, *userFeed, *raw, *timeout, *metricsAddr)
	if err != nil {
		logger.Error("tweettail failed", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run loads the config, builds the stream, and tails it until shutdown.
func run(logger *zap.Logger, configPath string, userFeed, raw bool, timeout time.Duration, metricsAddr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := buildStream(ctx, cfg, userFeed, raw, timeout, logger)
	defer s.Close()

	if metricsAddr != "" {
		serveMetrics(metricsAddr, s, logger)
	}

	if err := tail(ctx, s, raw, logger); err != nil {
		return err
	}
	logger.Info("interrupted, shutting down")
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" || cfg.AccessToken == "" || cfg.AccessSecret == "" {
		return nil, errors.New("config must set consumer_key, consumer_secret, access_token and access_secret")
	}
	return &cfg, nil
}

// buildStream picks the variant from the config: -user wins, then any filter
// predicate, then the sample feed.
func buildStream(ctx context.Context, cfg *fileConfig, userFeed, raw bool, timeout time.Duration, logger *zap.Logger) *tweetstream.Stream {
	creds := tweetstream.Credentials{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		AccessToken:    cfg.AccessToken,
		AccessSecret:   cfg.AccessSecret,
	}

	opts := []tweetstream.Option{
		tweetstream.WithLogger(logger.Named("tweetstream")),
	}
	if timeout > 0 {
		opts = append(opts, tweetstream.WithTimeout(timeout))
	}
	if raw {
		opts = append(opts, tweetstream.WithRaw())
	}
	if cfg.Endpoint != "" {
		opts = append(opts, tweetstream.WithEndpoint(cfg.Endpoint))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, tweetstream.WithUserAgent(cfg.UserAgent))
	}

	switch {
	case userFeed:
		return tweetstream.NewUserStream(ctx, creds, opts...)
	case len(cfg.Track)+len(cfg.Follow)+len(cfg.Locations) > 0:
		query := tweetstream.FilterQuery{
			Follow:    cfg.Follow,
			Locations: cfg.Locations,
			Track:     cfg.Track,
		}
		return tweetstream.NewFilterStream(ctx, creds, query, opts...)
	default:
		return tweetstream.NewSampleStream(ctx, creds, opts...)
	}
}

func serveMetrics(addr string, s *tweetstream.Stream, logger *zap.Logger) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(tweetstream.NewCollector(s))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
}

// tail pulls records forever, sleeping between reconnect attempts per the
// policy of whatever fault ended the connection. It returns nil on a clean
// shutdown and the terminal error otherwise.
func tail(ctx context.Context, s *tweetstream.Stream, raw bool, logger *zap.Logger) error {
	// One schedule per policy: a burst of immediate faults must not reset
	// the exponential clock, and vice versa.
	backoffs := make(map[tweetstream.ReconnectPolicy]backoff.BackOff)
	var lastLogged int64

	for {
		rec, err := s.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, tweetstream.ErrStreamClosed) {
				return nil
			}

			pol := tweetstream.PolicyFor(err)
			if pol == tweetstream.PolicyFatal {
				return err
			}

			bo, ok := backoffs[pol]
			if !ok {
				bo = pol.BackOff()
				backoffs[pol] = bo
			}
			delay := bo.NextBackOff()
			if delay == backoff.Stop {
				return err
			}

			logger.Warn("stream fault",
				zap.Error(err),
				zap.Stringer("policy", pol),
				zap.Duration("reconnect_in", delay))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}

		// A healthy record means the trouble has passed.
		for _, bo := range backoffs {
			bo.Reset()
		}

		printRecord(rec, raw)

		if stats := s.Stats(); stats.Count-lastLogged >= 1000 {
			lastLogged = stats.Count
			logger.Info("throughput",
				zap.Int64("records", stats.Count),
				zap.Float64("per_second", stats.Rate))
		}
	}
}

func printRecord(rec *tweetstream.Record, raw bool) {
	if raw {
		os.Stdout.Write(rec.Raw)
		os.Stdout.Write([]byte("\n"))
		return
	}
	if !rec.HasText() {
		return
	}
	if rec.User != nil && rec.User.ScreenName != "" {
		fmt.Printf("@%s: %s\n", rec.User.ScreenName, *rec.Text)
		return
	}
	fmt.Println(*rec.Text)
}
