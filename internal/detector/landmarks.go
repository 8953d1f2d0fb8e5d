// Package detector provides the hand and holistic landmark providers used by
// the gesture control and viewer pipelines.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumPoseLandmarks is the number of body landmarks reported by the pose model.
const NumPoseLandmarks = 33

// Point3D is a landmark position in normalized image coordinates.
// X and Y are in [0,1] with Y growing downward; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Heights returns the Y coordinate of each requested landmark, in order.
// Indices outside [0, NumLandmarks) are skipped.
func (h *HandLandmarks) Heights(indices []int) []float64 {
	if h == nil {
		return nil
	}

	heights := make([]float64, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= NumLandmarks {
			continue
		}
		heights = append(heights, h.Points[i].Y)
	}
	return heights
}

// Holistic is one frame of holistic model output. Any part may be missing
// when the model did not find it.
type Holistic struct {
	Face      []Point3D      `json:"face,omitempty"`
	Pose      []Point3D      `json:"pose,omitempty"`
	LeftHand  *HandLandmarks `json:"left_hand,omitempty"`
	RightHand *HandLandmarks `json:"right_hand,omitempty"`
}

// Empty reports whether nothing was detected in the frame.
func (h *Holistic) Empty() bool {
	return h == nil || (len(h.Face) == 0 && len(h.Pose) == 0 && h.LeftHand == nil && h.RightHand == nil)
}
