// Command ls-salat is a terminal prayer-times dashboard with headless and
// HTTP modes.
package main

import (
	"context"
	"encoding"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-salat/internal/astro"
	"github.com/litescript/ls-salat/internal/config"
	"github.com/litescript/ls-salat/internal/logging"
	"github.com/litescript/ls-salat/internal/render"
	"github.com/litescript/ls-salat/internal/server"
	"github.com/litescript/ls-salat/internal/state"
	"github.com/litescript/ls-salat/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	watchInterval time.Duration
	jsonPath      string
	nowMode       bool
	beepMode      bool
	eventsMode    bool
	qiblahMode    bool
)

const (
	defaultRefresh = 1 * time.Second
	minRefresh     = 250 * time.Millisecond
	maxRefresh     = 1 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	lat := flag.Float64("lat", 0, "Latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Longitude in degrees, east positive")
	tz := flag.String("tz", "", "IANA time zone (e.g., America/New_York)")
	date := flag.String("date", "", "Show the schedule for this date (YYYY-MM-DD)")
	method := flag.String("method", "", "Calculation method (e.g., MuslimWorldLeague, NorthAmerica)")
	madhab := flag.String("madhab", "", "Asr convention (shafi, hanafi)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	refresh := flag.Duration("refresh", defaultRefresh, "Clock refresh interval (e.g., 1s)")
	serveAddr := flag.String("serve", "", "Serve the HTTP API on this address (e.g., :8080)")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat output at interval (e.g., 1m)")
	flag.StringVar(&jsonPath, "json", "", "Export JSON schedule to file (use - for stdout)")
	flag.BoolVar(&nowMode, "now", false, "Single-line current prayer mode")
	flag.BoolVar(&beepMode, "beep", false, "Beep when a new prayer period starts (TTY only)")
	flag.BoolVar(&eventsMode, "events", false, "Show event log")
	flag.BoolVar(&qiblahMode, "qiblah", false, "Print the Qiblah bearing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Error: %v\n", err)
	}
	if err := applyFlags(cfg, *lat, *lon, *tz, *method, *madhab, *logLevel); err != nil {
		fatalf("Error: %v\n", err)
	}

	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	logger := logging.New(cfg.LogLevel())
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if *serveAddr != "" {
		cfg.Server.Addr = *serveAddr
		if err := server.New(cfg, logger).Start(ctx); err != nil {
			fatalf("Error: %v\n", err)
		}
		return
	}

	params, err := cfg.Parameters()
	if err != nil {
		fatalf("Error: %v\n", err)
	}
	loc, err := cfg.TimeZone()
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	stateCfg := state.DefaultConfig()
	stateCfg.Coordinates = cfg.Coordinates()
	stateCfg.Parameters = params
	stateCfg.Location = loc
	stateCfg.RefreshInterval = *refresh
	stateCfg.Logger = logger
	stateMgr := state.NewManager(stateCfg)

	now := time.Now()
	if err := stateMgr.Refresh(now); err != nil {
		fatalf("Error: %v\n", err)
	}
	if *date != "" {
		offset, err := dayOffset(*date, now.In(loc))
		if err != nil {
			fatalf("Error: %v\n", err)
		}
		if err := stateMgr.StepDay(offset); err != nil {
			fatalf("Error: %v\n", err)
		}
	}

	headless := summaryMode || jsonPath != "" || nowMode || eventsMode || qiblahMode || watchInterval > 0
	if headless {
		runHeadless(ctx, stateMgr, logger)
		return
	}

	p := tea.NewProgram(ui.New(stateMgr), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(cfg *config.Config, lat, lon float64, tz, method, madhab, logLevel string) error {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["lat"] {
		cfg.Location.Latitude = lat
	}
	if set["lon"] {
		cfg.Location.Longitude = lon
	}
	if tz != "" {
		cfg.Location.TimeZone = tz
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	texts := []struct {
		name  string
		value string
		dst   encoding.TextUnmarshaler
	}{
		{"method", method, &cfg.Calculation.Method},
		{"madhab", madhab, &cfg.Calculation.Madhab},
	}
	for _, t := range texts {
		if t.value == "" {
			continue
		}
		if err := t.dst.UnmarshalText([]byte(t.value)); err != nil {
			return fmt.Errorf("-%s: %w", t.name, err)
		}
	}
	return cfg.Validate()
}

// dayOffset returns the number of calendar days from now to date.
func dayOffset(date string, now time.Time) (int, error) {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return 0, fmt.Errorf("-date: %w", err)
	}
	// Noon on both sides keeps DST shifts out of the division.
	from := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)
	to := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	return int(math.Round(to.Sub(from).Hours() / 24)), nil
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, stateMgr *state.Manager, logger *logging.Logger) {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	lastOutput := time.Now()

	outputOnce := func() error {
		now := time.Now()
		if err := stateMgr.Refresh(now); err != nil {
			return err
		}
		snap := stateMgr.Snapshot()
		at := snap.Now

		if nowMode {
			fmt.Println(render.Status(snap.Live, at))
			return nil
		}

		if jsonPath != "" {
			export := render.ExportSchedule(snap.Displayed, at)
			if jsonPath == "-" {
				if err := export.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(jsonPath)
				if err != nil {
					return fmt.Errorf("create JSON file: %w", err)
				}
				defer f.Close()
				if err := export.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
				logger.Debug("Wrote schedule to %s", jsonPath)
			}
		}

		if summaryMode || (jsonPath == "" && !eventsMode && !qiblahMode) {
			render.WriteSummaryTable(os.Stdout, snap.Displayed, at)
		}

		if qiblahMode {
			writeQiblah(os.Stdout, snap.Today.Coordinates())
		}

		if eventsMode {
			fmt.Println()
			writeEvents(os.Stdout, stateMgr.RecentEvents(10))
		}

		if beepMode && isTTY && len(stateMgr.EventsSince(lastOutput)) > 0 {
			fmt.Print("\a")
		}
		lastOutput = now
		return nil
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fatalf("Error: %v\n", err)
		}
		return
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watch loop shutting down")
			return
		case <-ticker.C:
			if !nowMode {
				fmt.Println()
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func writeQiblah(w io.Writer, coords astro.Coordinates) {
	fmt.Fprintf(w, "Qiblah from %s: %.1f° from true north\n", coords, astro.Qiblah(coords))
}

func writeEvents(w io.Writer, events []state.Event) {
	fmt.Fprintln(w, "Recent events")
	if len(events) == 0 {
		fmt.Fprintln(w, "  (none yet)")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "  %s  %-8s %s (from %s)\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Name, e.From)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
