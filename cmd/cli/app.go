package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"investor-education/internal/config"
	"investor-education/internal/data"
	"investor-education/internal/logging"
	"investor-education/internal/market"
	"investor-education/internal/session"
	"investor-education/internal/simulator"
)

var (
	configPath = flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config (optional)")
	plain      = flag.Bool("plain", false, "print raw markdown instead of rendering it")
	verbose    = flag.Bool("v", false, "verbose logging")
)

// app is the state shared by every subcommand: the saved session plus the market desk.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store data.Store
	sess  *session.Session
	src   market.Source
	sim   *simulator.Simulator
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := logging.NewConsole(level)

	store, err := data.OpenStore(cfg.Storage.Driver, cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(cfg.Portfolio.StartingCash, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := sess.Load(ctx); err != nil {
		logger.Warn("saved session rejected, starting fresh", zap.Error(err))
	}
	src, err := market.NewFromConfig(cfg.Market, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	// The terminal desk is single-user, so -p may set the fill price.
	pc := cfg.Portfolio
	pc.AllowPriceOverride = true
	return &app{
		cfg:   cfg,
		log:   logger,
		store: store,
		sess:  sess,
		src:   src,
		sim:   simulator.New(sess, src, pc, cfg.Market, logger),
	}, nil
}

// save persists the session.
func (a *app) save(ctx context.Context) error {
	if err := a.sess.Save(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (a *app) close() {
	if c, ok := a.src.(io.Closer); ok {
		c.Close()
	}
	a.store.Close()
	a.log.Sync()
}

func (a *app) money(x float64) string {
	return simulator.FormatMoney(x, a.cfg.Portfolio.Currency)
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// parseAnswers reads a comma-separated list of 1-based option numbers. Blank or "-"
// entries are left unanswered.
func parseAnswers(s string) ([]*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]*int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "-" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not a number", i+1, p)
		}
		idx := n - 1
		out[i] = &idx
	}
	return out, nil
}
