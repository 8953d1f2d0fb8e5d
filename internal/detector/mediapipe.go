package detector

import (
	"encoding/json"
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Sidecar modes understood by mediapipe_service.py.
const (
	modeHands    = "hands"
	modeHolistic = "holistic"
)

// MediaPipeDetector implements Detector using a Python MediaPipe Hands subprocess.
type MediaPipeDetector struct {
	service *sidecar
}

// NewMediaPipeDetector creates a new MediaPipe hand detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if findMediaPipeScript() == "" {
		return nil, ErrScriptNotFound
	}

	return &MediaPipeDetector{
		service: newSidecar(modeHands, config),
	}, nil
}

// Detect analyzes a frame and returns detected hand landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	line, err := d.service.roundTrip(frame)
	if err != nil {
		return nil, err
	}
	return parseHands(line)
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	return d.service.close()
}

// MediaPipeHolistic implements HolisticDetector using MediaPipe Holistic.
type MediaPipeHolistic struct {
	service *sidecar
}

// NewMediaPipeHolistic creates a holistic detector backed by the sidecar.
func NewMediaPipeHolistic(config Config) (*MediaPipeHolistic, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if findMediaPipeScript() == "" {
		return nil, ErrScriptNotFound
	}

	return &MediaPipeHolistic{
		service: newSidecar(modeHolistic, config),
	}, nil
}

// DetectHolistic returns face, pose and hand landmarks for one frame.
func (d *MediaPipeHolistic) DetectHolistic(frame *gocv.Mat) (*Holistic, error) {
	line, err := d.service.roundTrip(frame)
	if err != nil {
		return nil, err
	}
	return parseHolistic(line)
}

// Close shuts down the Python process.
func (d *MediaPipeHolistic) Close() error {
	return d.service.close()
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h jsonHand) toHandLandmarks() (HandLandmarks, error) {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	// A partial hand would make every missing point read as (0,0,0).
	if len(h.Points) < NumLandmarks {
		return lm, fmt.Errorf("hand has %d points, want %d", len(h.Points), NumLandmarks)
	}

	for i := 0; i < NumLandmarks; i++ {
		lm.Points[i] = h.Points[i].toPoint()
	}

	return lm, nil
}

func (p jsonPoint) toPoint() Point3D {
	return Point3D{X: p.X, Y: p.Y, Z: p.Z}
}

func toPoints(in []jsonPoint) []Point3D {
	if len(in) == 0 {
		return nil
	}
	out := make([]Point3D, len(in))
	for i, p := range in {
		out[i] = p.toPoint()
	}
	return out
}

// parseHands decodes a hands-mode response line.
func parseHands(line []byte) ([]HandLandmarks, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
		Error string     `json:"error"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, errors.New("mediapipe: " + response.Error)
	}

	result := make([]HandLandmarks, 0, len(response.Hands))
	for i, h := range response.Hands {
		lm, err := h.toHandLandmarks()
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i, err)
		}
		result = append(result, lm)
	}

	return result, nil
}

// parseHolistic decodes a holistic-mode response line.
func parseHolistic(line []byte) (*Holistic, error) {
	var response struct {
		Face      []jsonPoint `json:"face"`
		Pose      []jsonPoint `json:"pose"`
		LeftHand  *jsonHand   `json:"left_hand"`
		RightHand *jsonHand   `json:"right_hand"`
		Error     string      `json:"error"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, errors.New("mediapipe: " + response.Error)
	}

	result := &Holistic{
		Face: toPoints(response.Face),
		Pose: toPoints(response.Pose),
	}

	if response.LeftHand != nil {
		lm, err := response.LeftHand.toHandLandmarks()
		if err != nil {
			return nil, fmt.Errorf("left hand: %w", err)
		}
		result.LeftHand = &lm
	}
	if response.RightHand != nil {
		lm, err := response.RightHand.toHandLandmarks()
		if err != nil {
			return nil, fmt.Errorf("right hand: %w", err)
		}
		result.RightHand = &lm
	}

	return result, nil
}
