// Command mudra recognizes hand gestures from a tracking stream and
// delivers them to hooks, the HTTP API and optional NATS subscribers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/events"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/source"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

// options holds the command line flags.
type options struct {
	Replay string
	Bridge string
	// Record writes every frame read from the source to a session file.
	Record string
	WebDir string
	Tray   bool
	// ExitOnEnd stops the process once the source is exhausted.
	ExitOnEnd bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.Replay, "replay", "", "replay a recorded JSON-lines session (- for stdin)")
	fs.StringVar(&o.Bridge, "bridge", "", "command of a tracking bridge writing JSON-lines frames to stdout")
	fs.StringVar(&o.Record, "record", "", "write the frames read from the source to a JSON-lines session file")
	fs.StringVar(&o.WebDir, "web", "", "directory of static web files (default: search ./web and ~/.mudra/web)")
	fs.BoolVar(&o.Tray, "tray", false, "show the system tray menu")
	fs.BoolVar(&o.ExitOnEnd, "exit-on-end", false, "exit when the source is exhausted")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch {
	case o.Replay != "" && o.Bridge != "":
		return options{}, errors.New("-replay and -bridge are mutually exclusive")
	case o.Replay == "" && o.Bridge == "":
		return options{}, errors.New("one of -replay or -bridge is required")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("mudra failed")
	}
}

func openSource(opts options, log zerolog.Logger) (source.Source, error) {
	var (
		src source.Source
		err error
	)
	if opts.Bridge != "" {
		src, err = source.NewProcessSource(opts.Bridge, logger.Named(log, "bridge"))
	} else {
		src, err = source.OpenReplay(opts.Replay)
	}
	if err != nil || opts.Record == "" {
		return src, err
	}

	rec, err := source.CreateRecorder(src, opts.Record)
	if err != nil {
		src.Close()
		return nil, err
	}
	log.Info().Str("path", opts.Record).Msg("recording session")
	return rec, nil
}

func run(ctx context.Context, opts options, cfg config.Config, log zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	src, err := openSource(opts, log)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}

	a, err := app.New(app.Config{
		Store:       st,
		Source:      src,
		Gesture:     cfg.GestureConfig(),
		HookDir:     cfg.HookDir,
		HookTimeout: cfg.HookTimeout,
		TickRate:    cfg.TickRate,
		Logger:      logger.Named(log, "app"),
	})
	if err != nil {
		src.Close()
		return err
	}
	if err := a.LoadSettings(); err != nil {
		a.Stop()
		return err
	}
	if err := a.DiscoverHooks(); err != nil {
		log.Warn().Err(err).Str("dir", cfg.HookDir).Msg("hook discovery failed")
	}
	log.Info().Int("hooks", len(a.HookManager().List())).Str("db", st.Path()).Msg("mudra starting")

	webDir := opts.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	srv := server.New(server.Config{
		Addr:      cfg.Addr,
		StaticDir: webDir,
		App:       a,
		Logger:    logger.Named(log, "http"),
	})

	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = events.Connect(cfg.NATSURL)
		if err != nil {
			a.Stop()
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Run(ctx) })
	if nc != nil {
		g.Go(func() error {
			events.Forward(ctx, a.Hub(), nc, cfg.NATSSubject, logger.Named(log, "nats"))
			return nil
		})
	}

	if err := a.Start(); err != nil {
		cancel()
		g.Wait()
		return err
	}
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-a.Done():
		}
		if err := a.Err(); err != nil {
			return err
		}
		if opts.ExitOnEnd {
			cancel()
		}
		return nil
	})

	if opts.Tray {
		t := tray.New(a.IsEnabled())
		t.OnToggle(a.SetEnabled)
		t.OnQuit(cancel)
		t.OnSettings(func() {
			url := settingsURL(cfg.Addr)
			if err := openBrowser(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("open settings")
			}
		})
		go t.Follow(ctx, a.Hub())
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		// systray needs the main goroutine
		t.Run()
		cancel()
	}

	err = g.Wait()
	a.Stop()
	log.Info().Uint64("frames", a.Stats().Frames).Msg("mudra stopped")
	return err
}

// findWebDir searches "web", "../web" and ~/.mudra/web for static files.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	dir, err := config.DataDir()
	if err != nil {
		return ""
	}
	homeWeb := filepath.Join(dir, "web")
	if info, err := os.Stat(homeWeb); err == nil && info.IsDir() {
		return homeWeb
	}
	return ""
}

// settingsURL returns the local URL of the web UI served on addr.
func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
