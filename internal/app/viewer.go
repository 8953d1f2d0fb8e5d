package app

import (
	"context"
	"fmt"
	"log"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/render"
)

// ViewerConfig wires the landmark viewer's collaborators.
type ViewerConfig struct {
	Camera   capture.Camera
	Detector detector.HolisticDetector
	Display  display.Sink
	QuitKey  rune
}

// Viewer overlays face, pose and hand landmarks on the camera feed. It
// never touches the volume.
type Viewer struct {
	config ViewerConfig
	frames int
}

// NewViewer validates the collaborators and returns a Viewer.
func NewViewer(config ViewerConfig) (*Viewer, error) {
	switch {
	case config.Camera == nil:
		return nil, fmt.Errorf("%w: camera", ErrMissingDependency)
	case config.Detector == nil:
		return nil, fmt.Errorf("%w: detector", ErrMissingDependency)
	case config.Display == nil:
		return nil, fmt.Errorf("%w: display", ErrMissingDependency)
	}
	if config.QuitKey == 0 {
		config.QuitKey = display.DefaultQuitKey
	}
	return &Viewer{config: config}, nil
}

// Frames returns how many frames the viewer has shown.
func (v *Viewer) Frames() int {
	return v.frames
}

// Run shows annotated frames until quit, cancellation, or a read failure.
func (v *Viewer) Run(ctx context.Context) error {
	defer v.release()

	if err := v.config.Camera.Open(); err != nil {
		return wrapCapture(err)
	}
	log.Println("Landmark viewer started")

	for {
		if ctx.Err() != nil {
			log.Println("Landmark viewer cancelled")
			return nil
		}

		frame, err := v.config.Camera.ReadFrame()
		if err != nil {
			return wrapCapture(err)
		}
		v.frames++

		result, err := v.config.Detector.DetectHolistic(frame)
		if err != nil {
			log.Printf("Error detecting landmarks: %v", err)
		} else {
			render.DrawHolistic(frame, result)
		}

		v.config.Display.Show(frame)
		frame.Close()

		if display.IsQuit(v.config.Display.PollKey(), v.config.QuitKey) {
			log.Println("Quit key pressed")
			return nil
		}
	}
}

func (v *Viewer) release() {
	if err := v.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := v.config.Display.Close(); err != nil {
		log.Printf("Error closing window: %v", err)
	}
	if err := v.config.Detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
}
