// Package app runs the gesture control loop and the landmark viewer loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/render"
)

// Window titles.
const (
	ControlWindowTitle = "Hand Gesture"
	ViewerWindowTitle  = "Detections"
)

// ErrMissingDependency is returned when a required collaborator is nil.
var ErrMissingDependency = errors.New("missing dependency")

// Journal records the volume changes a session issues. Write failures are
// logged by the session and never stop it.
type Journal interface {
	Record(label string, delta, handIndex int, handedness string, actErr error) error
}

// Config wires the control loop's collaborators.
type Config struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Dispatcher *dispatch.Dispatcher
	Display    display.Sink

	// Classifier defaults to gesture.DefaultClassifier.
	Classifier *gesture.Classifier
	// Journal is optional.
	Journal Journal
	// QuitKey defaults to display.DefaultQuitKey.
	QuitKey rune
}

// Session is one run of the gesture control loop. Everything happens on the
// goroutine that calls Run.
type Session struct {
	config    Config
	lastState dispatch.State
	frames    int
}

// NewSession validates the collaborators and returns a Session.
func NewSession(config Config) (*Session, error) {
	switch {
	case config.Camera == nil:
		return nil, fmt.Errorf("%w: camera", ErrMissingDependency)
	case config.Detector == nil:
		return nil, fmt.Errorf("%w: detector", ErrMissingDependency)
	case config.Dispatcher == nil:
		return nil, fmt.Errorf("%w: dispatcher", ErrMissingDependency)
	case config.Display == nil:
		return nil, fmt.Errorf("%w: display", ErrMissingDependency)
	}
	if config.Classifier == nil {
		config.Classifier = gesture.DefaultClassifier()
	}
	if config.QuitKey == 0 {
		config.QuitKey = display.DefaultQuitKey
	}

	return &Session{
		config:    config,
		lastState: config.Dispatcher.State(),
	}, nil
}

// Frames returns how many frames the session has processed.
func (s *Session) Frames() int {
	return s.frames
}

// Run opens the camera and processes frames until the quit key is pressed,
// ctx is cancelled, or a frame cannot be read. Quit and cancellation return
// nil; a read failure returns an error wrapping capture.ErrCaptureFailed.
// The camera, window and detector are released on every exit path.
func (s *Session) Run(ctx context.Context) error {
	defer s.release()

	if err := s.config.Camera.Open(); err != nil {
		return wrapCapture(err)
	}
	dc := s.config.Dispatcher.Config()
	log.Printf("Gesture control started (step %d, cooldown %v, %s mode)", dc.Step, dc.Cooldown, dc.Mode)

	for {
		if ctx.Err() != nil {
			log.Println("Gesture control cancelled")
			return nil
		}

		quit, err := s.step()
		if err != nil {
			return err
		}
		if quit {
			log.Println("Quit key pressed")
			return nil
		}
	}
}

// step processes one frame and reports whether the quit key was pressed.
func (s *Session) step() (bool, error) {
	frame, err := s.config.Camera.ReadFrame()
	if err != nil {
		return false, wrapCapture(err)
	}
	defer frame.Close()
	s.frames++

	hands, err := s.config.Detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
	} else if len(hands) == 0 {
		s.config.Dispatcher.NoHand()
	} else {
		for i := range hands {
			s.handle(frame, i, &hands[i])
		}
	}
	s.logState()

	s.config.Display.Show(frame)
	return display.IsQuit(s.config.Display.PollKey(), s.config.QuitKey), nil
}

// handle draws, classifies and dispatches one hand.
func (s *Session) handle(frame *gocv.Mat, index int, hand *detector.HandLandmarks) {
	render.DrawHand(frame, hand)

	label := s.config.Classifier.Classify(hand)
	render.DrawLabel(frame, label.String())
	result, err := s.config.Dispatcher.Dispatch(label)
	if err != nil {
		log.Printf("Error changing volume: %v", err)
	}
	if result.Delta == 0 || s.config.Journal == nil {
		return
	}
	if jerr := s.config.Journal.Record(label.String(), result.Delta, index, hand.Handedness, err); jerr != nil {
		log.Printf("Error writing journal: %v", jerr)
	}
}

func (s *Session) logState() {
	state := s.config.Dispatcher.State()
	if state != s.lastState {
		log.Printf("State: %s -> %s", s.lastState, state)
		s.lastState = state
	}
}

func (s *Session) release() {
	if err := s.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := s.config.Display.Close(); err != nil {
		log.Printf("Error closing window: %v", err)
	}
	if err := s.config.Detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
}

// wrapCapture makes sure a camera error matches capture.ErrCaptureFailed.
func wrapCapture(err error) error {
	if errors.Is(err, capture.ErrCaptureFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", capture.ErrCaptureFailed, err)
}
