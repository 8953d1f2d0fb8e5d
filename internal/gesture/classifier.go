// Package gesture classifies a single hand pose as pointing up, pointing down,
// or neither, by comparing landmark heights.
package gesture

import (
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// Label is the result of classifying one hand in one frame.
type Label int

const (
	// Other is any pose that is neither pointing up nor pointing down.
	Other Label = iota
	// Up is thumb and pinky held at or above the folded fingers.
	Up
	// Down is thumb and pinky held at or below the folded fingers.
	Down
)

// String returns the label name used in logs and the journal.
func (l Label) String() string {
	switch l {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "other"
	}
}

// Errors returned by NewClassifier.
var (
	ErrEmptySubset       = errors.New("landmark subset is empty")
	ErrLandmarkIndex     = errors.New("landmark index out of range")
	ErrOverlappingSubset = errors.New("key and reference subsets overlap")
)

// KeyPoints are the landmarks whose height decides the polarity.
var KeyPoints = []int{detector.PinkyTip, detector.ThumbTip}

// ReferencePoints are the landmarks the key points are compared against.
var ReferencePoints = []int{detector.MiddleDIP, detector.IndexTip, detector.RingTip}

// PointedUp reports whether no key height is greater than any reference
// height. Smaller Y is higher on screen, so every key point sits at or above
// every reference point.
func PointedUp(key, ref []float64) bool {
	for _, k := range key {
		for _, r := range ref {
			if k > r {
				return false
			}
		}
	}
	return true
}

// PointedDown reports whether no key height is less than any reference
// height: every key point sits at or below every reference point.
func PointedDown(key, ref []float64) bool {
	for _, k := range key {
		for _, r := range ref {
			if k < r {
				return false
			}
		}
	}
	return true
}

// ClassifyHeights labels a pose from the key and reference heights.
//
// Up is tested first, so when every height is equal both predicates hold and
// the result is Up. That tie-break falls out of the evaluation order rather
// than any intent, but is kept so behaviour matches the established rule.
func ClassifyHeights(key, ref []float64) Label {
	if PointedUp(key, ref) {
		return Up
	}
	if PointedDown(key, ref) {
		return Down
	}
	return Other
}

// Classifier maps a detected hand to a Label. It holds only the static
// choice of landmark subsets and keeps no state between calls.
type Classifier struct {
	key []int
	ref []int
}

// NewClassifier creates a Classifier over the given landmark subsets.
// Both subsets must be non-empty, in range, and disjoint.
func NewClassifier(key, ref []int) (*Classifier, error) {
	if len(key) == 0 || len(ref) == 0 {
		return nil, ErrEmptySubset
	}

	seen := make(map[int]bool, len(key))
	for _, i := range key {
		if i < 0 || i >= detector.NumLandmarks {
			return nil, fmt.Errorf("%w: %d", ErrLandmarkIndex, i)
		}
		seen[i] = true
	}
	for _, i := range ref {
		if i < 0 || i >= detector.NumLandmarks {
			return nil, fmt.Errorf("%w: %d", ErrLandmarkIndex, i)
		}
		if seen[i] {
			return nil, fmt.Errorf("%w: %d", ErrOverlappingSubset, i)
		}
	}

	return &Classifier{
		key: append([]int(nil), key...),
		ref: append([]int(nil), ref...),
	}, nil
}

// DefaultClassifier returns a Classifier over KeyPoints and ReferencePoints.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(KeyPoints, ReferencePoints)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the label for one detected hand. The caller must only pass
// hands the detector actually reported; a nil hand yields Other.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return Other
	}
	return ClassifyHeights(hand.Heights(c.key), hand.Heights(c.ref))
}
