package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
)

func main() {
	fmt.Println("Mudra - Landmark Viewer")

	config.LoadDotEnv()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	det, err := detector.NewMediaPipeHolistic(cfg.Holistic())
	if err != nil {
		log.Fatalf("Failed to initialize holistic detector: %v", err)
	}

	viewer, err := app.NewViewer(app.ViewerConfig{
		Camera:   capture.NewCamera(cfg.Capture()),
		Detector: det,
		Display:  display.NewWindow(app.ViewerWindowTitle),
		QuitKey:  cfg.QuitKey,
	})
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := viewer.Run(ctx); err != nil {
		log.Printf("Viewer ended: %v", err)
		os.Exit(1)
	}
}
