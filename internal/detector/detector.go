package detector

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrInvalidConfig is returned by Config.Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid detector config")

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks
	// in the order reported by the model.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// HolisticDetector detects face, body pose and both hands in one pass.
type HolisticDetector interface {
	DetectHolistic(frame *gocv.Mat) (*Holistic, error)
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (hands mode only).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the hand detection settings used by gesture control:
// one hand, 0.5 to pick a hand up, 0.2 to keep tracking it.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.2,
	}
}

// DefaultHolisticConfig returns the settings used by the landmark viewer.
func DefaultHolisticConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Validate checks that thresholds are within [0,1] and MaxHands is positive.
func (c Config) Validate() error {
	if c.MaxHands < 1 {
		return fmt.Errorf("%w: max hands must be at least 1, got %d", ErrInvalidConfig, c.MaxHands)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: detection confidence must be in [0,1], got %f", ErrInvalidConfig, c.MinConfidence)
	}
	if c.MinTrackingConf < 0 || c.MinTrackingConf > 1 {
		return fmt.Errorf("%w: tracking confidence must be in [0,1], got %f", ErrInvalidConfig, c.MinTrackingConf)
	}
	return nil
}
