// Command judge hosts local epidemic matches between bots. Matches can be
// recorded to parquet, streamed to websocket spectators, exported as
// Prometheus metrics and watched in a terminal UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brensch/epidemic/config"
	"github.com/brensch/epidemic/controller"
	"github.com/brensch/epidemic/feed"
	"github.com/brensch/epidemic/observability"
	"github.com/brensch/epidemic/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("judge: %v", err)
	}
}

type options struct {
	configPath string
	outDir     string
	listen     string
	tui        bool
	seed       int64
	rounds     int
	matches    int
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("judge", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var o options
	fs.StringVar(&o.configPath, "config", getEnvOrDefault("JUDGE_CONFIG", ""), "YAML match config; defaults reproduce the reference match")
	fs.StringVar(&o.outDir, "out-dir", getEnvOrDefault("JUDGE_OUT_DIR", "data/matches"), "Directory for match parquet files (empty disables recording)")
	fs.StringVar(&o.listen, "listen", getEnvOrDefault("JUDGE_LISTEN", ""), "Serve /ws spectators and /metrics on this address (e.g. :8080)")
	fs.BoolVar(&o.tui, "tui", false, "Watch matches in a terminal UI")
	fs.Int64Var(&o.seed, "seed", 0, "Override the config seed (0 keeps it)")
	fs.IntVar(&o.rounds, "rounds", 0, "Override the config round limit (0 keeps it)")
	fs.IntVar(&o.matches, "matches", getEnvIntOrDefault("JUDGE_MATCHES", 1), "Number of matches to play back to back")

	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("flag parse: %w", err)
	}
	if o.matches < 1 {
		return options{}, fmt.Errorf("matches must be positive, got %d", o.matches)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.rounds > 0 {
		cfg.Rounds = opts.rounds
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMatchCollector(reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	hub := feed.NewHub()
	defer hub.Close()

	if opts.listen != "" {
		srv := newServer(opts.listen, hub, metrics)
		go func() {
			log.Printf("Serving spectators and metrics on %s", opts.listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	observers := []func(controller.Frame){metrics.Observe, hub.Publish}

	if !opts.tui {
		return playMatches(ctx, cfg, opts, observers, stdout)
	}

	// Keep log output out of the terminal UI.
	f, err := os.OpenFile("judge.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	log.SetOutput(f)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan controller.Frame, 64)
	observers = append(observers, func(fr controller.Frame) {
		select {
		case updates <- fr:
		case <-ctx.Done():
		}
	})

	done := make(chan error, 1)
	go func() {
		done <- playMatches(ctx, cfg, opts, observers, io.Discard)
	}()

	p := tea.NewProgram(initialModel(updates, cfg.Rounds), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newServer(addr string, hub *feed.Hub, metrics *observability.MatchCollector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", metrics.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
}

func playMatches(ctx context.Context, cfg config.Match, opts options, observers []func(controller.Frame), stdout io.Writer) error {
	seats, err := controller.SeatsFromConfig(cfg.Players)
	if err != nil {
		return err
	}

	for i := 0; i < opts.matches; i++ {
		matchCfg := cfg
		if cfg.Seed != 0 {
			matchCfg.Seed = cfg.Seed + int64(i)
		}

		m, err := controller.NewMatch(matchCfg, seats)
		if err != nil {
			return err
		}
		for _, fn := range observers {
			m.Observe(fn)
		}
		var rec *store.Recorder
		if opts.outDir != "" {
			rec = store.NewRecorder(opts.outDir)
			m.Observe(rec.Observe)
		}

		log.Printf("Starting match %s (%d/%d)", m.ID, i+1, opts.matches)
		start := time.Now()
		res, err := m.Run(ctx)
		if err != nil {
			return fmt.Errorf("match %s: %w", m.ID, err)
		}
		log.Printf("Match %s finished after %d rounds in %s", m.ID, res.Rounds, time.Since(start).Round(time.Millisecond))

		if rec != nil && rec.Err() != nil {
			return fmt.Errorf("record match %s: %w", m.ID, rec.Err())
		}
		if err := printScores(stdout, res); err != nil {
			return err
		}
	}
	return nil
}

func printScores(w io.Writer, res controller.Result) error {
	if _, err := fmt.Fprintf(w, "Match %s (%d rounds)\n", res.MatchID, res.Rounds); err != nil {
		return err
	}
	for _, s := range res.Scores {
		if _, err := fmt.Fprintf(w, "%2d. %-14s healthy=%-6d infected=%-6d dead=%d\n", s.Rank, s.Name, s.Healthy, s.Infected, s.Dead); err != nil {
			return err
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
