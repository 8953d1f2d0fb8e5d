package detector

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHandLandmarks_Heights(t *testing.T) {
	t.Run("returns Y coordinates in request order", func(t *testing.T) {
		hand := PointingUpLandmarks()

		heights := hand.Heights([]int{PinkyTip, ThumbTip})

		if len(heights) != 2 {
			t.Fatalf("expected 2 heights, got %d", len(heights))
		}
		if heights[0] != hand.Points[PinkyTip].Y {
			t.Errorf("heights[0] = %f, want pinky tip %f", heights[0], hand.Points[PinkyTip].Y)
		}
		if heights[1] != hand.Points[ThumbTip].Y {
			t.Errorf("heights[1] = %f, want thumb tip %f", heights[1], hand.Points[ThumbTip].Y)
		}
	})

	t.Run("skips out of range indices", func(t *testing.T) {
		hand := PointingUpLandmarks()

		heights := hand.Heights([]int{-1, Wrist, NumLandmarks})

		if len(heights) != 1 {
			t.Fatalf("expected 1 height, got %d", len(heights))
		}
	})

	t.Run("nil hand returns nil", func(t *testing.T) {
		var hand *HandLandmarks
		if heights := hand.Heights([]int{Wrist}); heights != nil {
			t.Errorf("expected nil, got %v", heights)
		}
	})
}

func TestHolistic_Empty(t *testing.T) {
	var nilResult *Holistic
	if !nilResult.Empty() {
		t.Error("nil result should be empty")
	}

	if !(&Holistic{}).Empty() {
		t.Error("zero result should be empty")
	}

	hand := PointingUpLandmarks()
	if (&Holistic{RightHand: &hand}).Empty() {
		t.Error("result with a hand should not be empty")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "hands default", config: DefaultConfig()},
		{name: "holistic default", config: DefaultHolisticConfig()},
		{name: "thresholds at bounds", config: Config{MaxHands: 1, MinConfidence: 0, MinTrackingConf: 1}},
		{name: "zero hands", config: Config{MaxHands: 0, MinConfidence: 0.5, MinTrackingConf: 0.5}, wantErr: true},
		{name: "detection above 1", config: Config{MaxHands: 1, MinConfidence: 1.5, MinTrackingConf: 0.5}, wantErr: true},
		{name: "tracking below 0", config: Config{MaxHands: 1, MinConfidence: 0.5, MinTrackingConf: -0.1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxHands != 1 {
		t.Errorf("MaxHands = %d, want 1", cfg.MaxHands)
	}
	if cfg.MinConfidence != 0.5 {
		t.Errorf("MinConfidence = %f, want 0.5", cfg.MinConfidence)
	}
	if cfg.MinTrackingConf != 0.2 {
		t.Errorf("MinTrackingConf = %f, want 0.2", cfg.MinTrackingConf)
	}
}

func TestSidecarArgs(t *testing.T) {
	args := sidecarArgs(modeHands, Config{MaxHands: 2, MinConfidence: 0.5, MinTrackingConf: 0.25})

	got := strings.Join(args, " ")
	want := "--mode hands --max-hands 2 --min-detection 0.5 --min-tracking 0.25"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

// handJSON builds a JSON hand with n points whose Y equals the point index / 100.
func handJSON(handedness string, n int) string {
	points := make([]string, n)
	for i := range points {
		points[i] = fmt.Sprintf(`{"x":0.5,"y":%g,"z":0}`, float64(i)/100)
	}
	return fmt.Sprintf(`{"handedness":%q,"score":0.9,"points":[%s]}`, handedness, strings.Join(points, ","))
}

func TestParseHands(t *testing.T) {
	t.Run("no hands", func(t *testing.T) {
		hands, err := parseHands([]byte(`{"hands":[]}` + "\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected 0 hands, got %d", len(hands))
		}
	})

	t.Run("hands keep model order", func(t *testing.T) {
		line := `{"hands":[` + handJSON("Left", NumLandmarks) + "," + handJSON("Right", NumLandmarks) + "]}\n"

		hands, err := parseHands([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("expected 2 hands, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[1].Handedness != "Right" {
			t.Errorf("unexpected order: %s, %s", hands[0].Handedness, hands[1].Handedness)
		}
		if hands[0].Points[PinkyTip].Y != 0.20 {
			t.Errorf("pinky tip Y = %f, want 0.20", hands[0].Points[PinkyTip].Y)
		}
	})

	t.Run("partial hand is rejected", func(t *testing.T) {
		line := `{"hands":[` + handJSON("Left", 5) + "]}"
		if _, err := parseHands([]byte(line)); err == nil {
			t.Error("expected error for hand with 5 points")
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := parseHands([]byte(`{"error":"decode failed"}`))
		if err == nil || !strings.Contains(err.Error(), "decode failed") {
			t.Errorf("expected service error, got %v", err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := parseHands([]byte(`{"hands":`)); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestParseHolistic(t *testing.T) {
	line := `{"face":[{"x":0.1,"y":0.2,"z":0}],"pose":[],"left_hand":null,"right_hand":` + handJSON("Right", NumLandmarks) + `}`

	result, err := parseHolistic([]byte(line))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Face) != 1 {
		t.Errorf("expected 1 face point, got %d", len(result.Face))
	}
	if result.Pose != nil {
		t.Errorf("expected nil pose, got %v", result.Pose)
	}
	if result.LeftHand != nil {
		t.Error("expected no left hand")
	}
	if result.RightHand == nil || result.RightHand.Handedness != "Right" {
		t.Errorf("expected right hand, got %+v", result.RightHand)
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()

		mock.SetHands([]HandLandmarks{PointingUpLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("plays a sequence then reports no hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([][]HandLandmarks{
			{PointingUpLandmarks()},
			nil,
			{PointingDownLandmarks(), PointingUpLandmarks()},
		})

		wantCounts := []int{1, 0, 2, 0}
		for i, want := range wantCounts {
			hands, err := mock.Detect(nil)
			if err != nil {
				t.Fatalf("call %d: unexpected error: %v", i, err)
			}
			if len(hands) != want {
				t.Errorf("call %d: expected %d hands, got %d", i, want, len(hands))
			}
		}
		if mock.Calls() != len(wantCounts) {
			t.Errorf("Calls() = %d, want %d", mock.Calls(), len(wantCounts))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected Closed() after Close")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ HolisticDetector = (*MockHolistic)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
		var _ HolisticDetector = (*MediaPipeHolistic)(nil)
	})
}

func TestPointingFixtures(t *testing.T) {
	up := PointingUpLandmarks()
	down := PointingDownLandmarks()

	t.Run("pointing up has thumb and pinky above folded fingers", func(t *testing.T) {
		for _, k := range []int{ThumbTip, PinkyTip} {
			for _, r := range []int{MiddleDIP, IndexTip, RingTip} {
				if up.Points[k].Y >= up.Points[r].Y {
					t.Errorf("point %d (Y=%f) should be above point %d (Y=%f)", k, up.Points[k].Y, r, up.Points[r].Y)
				}
			}
		}
	})

	t.Run("pointing down mirrors pointing up vertically", func(t *testing.T) {
		for i := 0; i < NumLandmarks; i++ {
			if down.Points[i].X != up.Points[i].X {
				t.Errorf("point %d X changed: %f != %f", i, down.Points[i].X, up.Points[i].X)
			}
			if sum := down.Points[i].Y + up.Points[i].Y; sum < 0.999 || sum > 1.001 {
				t.Errorf("point %d Y not mirrored: %f + %f", i, down.Points[i].Y, up.Points[i].Y)
			}
		}
	})
}

func TestThumbsUpLandmarks(t *testing.T) {
	landmarks := ThumbsUpLandmarks()

	if landmarks.Handedness != "Right" {
		t.Errorf("expected handedness Right, got %s", landmarks.Handedness)
	}

	// Thumb tip should be above (lower Y) than thumb MCP
	if landmarks.Points[ThumbTip].Y >= landmarks.Points[ThumbMCP].Y {
		t.Error("thumb tip should be above thumb MCP (lower Y value)")
	}

	// Pinky stays curled below the folded middle finger joint
	if landmarks.Points[PinkyTip].Y <= landmarks.Points[MiddleDIP].Y {
		t.Error("pinky tip should be below middle DIP")
	}
}
