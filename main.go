package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"StudioIntake/internal/config"
	"StudioIntake/internal/intake"
	"StudioIntake/internal/net"
	"StudioIntake/internal/signature"
	"StudioIntake/internal/store"
	"StudioIntake/internal/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	discoverTimeout = 5 * time.Second
	retryDelay      = 3 * time.Second
)

func main() {
	mode := flag.String("mode", "desk", "run as \"desk\" (receives forms) or \"kiosk\" (client tablet)")
	configPath := flag.String("config", "studiointake.toml", "path to the TOML config file")
	deskAddr := flag.String("desk", "", "desk address (host:port) for kiosk mode; discovered via mDNS when empty")
	verbose := flag.Bool("v", false, "log signature pipeline details")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *verbose {
		signature.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Launching through a share link always starts a kiosk.
	if args := flag.Args(); len(args) > 0 {
		if addr, ok := net.ParseShareLink(args[0]); ok {
			*mode = "kiosk"
			*deskAddr = addr
		}
	}

	switch *mode {
	case "desk":
		runDesk(cfg)
	case "kiosk":
		runKiosk(cfg, *deskAddr)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

func runDesk(cfg config.Config) {
	log.Println("Starting as DESK")
	st, err := store.Open(cfg.Desk.DataDir)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	desk := net.NewDesk(st)
	go func() {
		if err := desk.ListenAndServe(ctx, cfg.Desk.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	if cfg.Desk.MDNS {
		server, err := net.Advertise(cfg.Desk.Port)
		if err != nil {
			log.Printf("[DESK] mDNS disabled: %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	shareLink := net.ShareLink(net.OutgoingIP(), cfg.Desk.Port)
	log.Printf("[DESK] Kiosks can join with %s", shareLink)

	a := app.New()
	w, dash := ui.NewDeskWindow(a, st, shareLink)
	desk.OnRecord = func(rec intake.Record) {
		log.Printf("[DESK] New record %s (risk: %t)", rec.ID, rec.HasRisk)
		fyne.Do(dash.Reload)
	}
	w.ShowAndRun()
}

func runKiosk(cfg config.Config, addr string) {
	log.Println("Starting as KIOSK")
	a := app.New()
	w, form := ui.NewKioskWindow(a, cfg.Pad.Signature())

	ctx, cancel := context.WithCancel(context.Background())
	link := &deskLink{addr: addr}
	go func() {
		if err := link.connect(ctx, form.SetStatus); err != nil {
			return
		}
		fyne.Do(func() { form.SetSubmitter(link) })
	}()

	w.ShowAndRun()
	cancel()
	link.Close()
}

// deskLink is the kiosk's connection to the desk. It redials once when a
// submission fails on a dropped connection.
type deskLink struct {
	mu    sync.Mutex
	addr  string
	kiosk *net.Kiosk
}

// connect discovers (if needed) and dials the desk, retrying until ctx ends.
func (l *deskLink) connect(ctx context.Context, status func(string)) error {
	for {
		err := l.dial(ctx, status)
		if err == nil {
			return nil
		}
		log.Printf("[KIOSK] %v", err)
		status(fmt.Sprintf("Sem conexão com o balcão: %v", err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

func (l *deskLink) dial(ctx context.Context, status func(string)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.addr == "" {
		status("Procurando balcão na rede...")
		addr, err := net.Discover(ctx, discoverTimeout)
		if err != nil {
			return err
		}
		l.addr = addr
	}
	k, err := net.Dial(ctx, l.addr)
	if err != nil {
		return err
	}
	l.kiosk = k
	status("Conectado ao balcão " + l.addr)
	return nil
}

func (l *deskLink) Submit(ctx context.Context, sub intake.Submission) (string, error) {
	l.mu.Lock()
	k := l.kiosk
	l.mu.Unlock()
	if k != nil {
		id, err := k.Submit(ctx, sub)
		var remote *net.RemoteError
		if err == nil || errors.As(err, &remote) || ctx.Err() != nil {
			return id, err
		}
		log.Printf("[KIOSK] Connection lost, redialing: %v", err)
		k.Close()
	}
	if err := l.dial(ctx, func(string) {}); err != nil {
		return "", err
	}
	l.mu.Lock()
	k = l.kiosk
	l.mu.Unlock()
	return k.Submit(ctx, sub)
}

func (l *deskLink) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.kiosk != nil {
		l.kiosk.Close()
	}
}
