package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/volume"
)

func main() {
	fmt.Println("Mudra - Hand Gesture Volume Control")

	if err := run(); err != nil {
		log.Fatalf("Session ended: %v", err)
	}
	log.Println("Session ended")
}

func run() error {
	config.LoadDotEnv()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Fail before touching the camera if the volume cannot be driven here.
	vol, err := volume.New(runtime.GOOS)
	if err != nil {
		return fmt.Errorf("volume control unavailable (supported: %v): %w", volume.Platforms(), err)
	}

	dispatcher := dispatch.New(vol, cfg.Dispatch())

	var st *store.Store
	if cfg.Journal != "" {
		st, err = openStore(cfg.Journal)
		if err != nil {
			return fmt.Errorf("initialize journal: %w", err)
		}
		defer st.Close()
	}

	det, err := detector.NewMediaPipeDetector(cfg.Hands())
	if err != nil {
		return fmt.Errorf("initialize hand detector: %w", err)
	}
	log.Println("Using MediaPipe hand detection")

	appCfg := app.Config{
		Camera:     capture.NewCamera(cfg.Capture()),
		Detector:   det,
		Dispatcher: dispatcher,
		QuitKey:    cfg.QuitKey,
	}

	var journal *store.Journal
	if st != nil {
		journal, err = st.Begin(runtime.GOOS, string(dispatcher.Config().Mode))
		if err != nil {
			det.Close()
			return fmt.Errorf("start journal session: %w", err)
		}
		appCfg.Journal = journal
		log.Printf("Journaling actuations to %s (session %s)", cfg.Journal, journal.SessionID())
	}

	// The window opens last so every earlier failure leaves nothing on screen.
	window := display.NewWindow(app.ControlWindowTitle)
	appCfg.Display = window

	session, err := app.NewSession(appCfg)
	if err != nil {
		window.Close()
		det.Close()
		if journal != nil {
			journal.End(err.Error())
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := session.Run(ctx)

	if journal != nil {
		if err := journal.End(endReason(ctx, runErr)); err != nil {
			log.Printf("Error ending journal session: %v", err)
		}
	}

	return runErr
}

// openStore opens the journal database, creating its directory if needed.
func openStore(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}
	return store.New(path)
}

func endReason(ctx context.Context, err error) string {
	switch {
	case err != nil:
		return err.Error()
	case ctx.Err() != nil:
		return "signal"
	default:
		return "quit"
	}
}
