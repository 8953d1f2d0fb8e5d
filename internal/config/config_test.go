package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/dispatch"
)

var envVars = []string{
	"MUDRA_CAMERA", "MUDRA_FRAME_WIDTH", "MUDRA_FRAME_HEIGHT",
	"MUDRA_MAX_HANDS", "MUDRA_MIN_DETECTION", "MUDRA_MIN_TRACKING",
	"MUDRA_VIEWER_MIN_DETECTION", "MUDRA_VIEWER_MIN_TRACKING",
	"MUDRA_VOLUME_STEP", "MUDRA_COOLDOWN_MS", "MUDRA_COOLDOWN_MODE",
	"MUDRA_QUIT_KEY", "MUDRA_JOURNAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		// t.Setenv restores the original value after the test.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.CameraID != 0 {
		t.Errorf("CameraID = %d, want 0", cfg.CameraID)
	}
	if cfg.FrameWidth != 0 || cfg.FrameHeight != 0 {
		t.Errorf("frame size = %dx%d, want device default", cfg.FrameWidth, cfg.FrameHeight)
	}
	if cfg.MaxHands != 1 {
		t.Errorf("MaxHands = %d, want 1", cfg.MaxHands)
	}
	if cfg.MinDetection != 0.5 {
		t.Errorf("MinDetection = %f, want 0.5", cfg.MinDetection)
	}
	if cfg.MinTracking != 0.2 {
		t.Errorf("MinTracking = %f, want 0.2", cfg.MinTracking)
	}
	if cfg.ViewerMinDetection != 0.5 || cfg.ViewerMinTracking != 0.5 {
		t.Errorf("viewer thresholds = %f/%f, want 0.5/0.5", cfg.ViewerMinDetection, cfg.ViewerMinTracking)
	}
	if cfg.VolumeStep != 5 {
		t.Errorf("VolumeStep = %d, want 5", cfg.VolumeStep)
	}
	if cfg.Cooldown != 500*time.Millisecond {
		t.Errorf("Cooldown = %v, want 500ms", cfg.Cooldown)
	}
	if cfg.CooldownMode != "block" {
		t.Errorf("CooldownMode = %q, want block", cfg.CooldownMode)
	}
	if cfg.QuitKey != 'q' {
		t.Errorf("QuitKey = %q, want 'q'", cfg.QuitKey)
	}
	if cfg.Journal != "" {
		t.Errorf("Journal = %q, want disabled", cfg.Journal)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MUDRA_CAMERA", "2")
	t.Setenv("MUDRA_FRAME_WIDTH", "1280")
	t.Setenv("MUDRA_FRAME_HEIGHT", "720")
	t.Setenv("MUDRA_MAX_HANDS", "2")
	t.Setenv("MUDRA_MIN_DETECTION", "0.7")
	t.Setenv("MUDRA_MIN_TRACKING", "0.4")
	t.Setenv("MUDRA_VOLUME_STEP", "10")
	t.Setenv("MUDRA_COOLDOWN_MS", "250")
	t.Setenv("MUDRA_COOLDOWN_MODE", "deadline")
	t.Setenv("MUDRA_QUIT_KEY", "x")
	t.Setenv("MUDRA_JOURNAL", "/tmp/mudra.db")

	cfg := Load()

	if cfg.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", cfg.CameraID)
	}
	capCfg := cfg.Capture()
	if capCfg.DeviceID != 2 || capCfg.Width != 1280 || capCfg.Height != 720 {
		t.Errorf("Capture() = %+v", capCfg)
	}
	hands := cfg.Hands()
	if hands.MaxHands != 2 || hands.MinConfidence != 0.7 || hands.MinTrackingConf != 0.4 {
		t.Errorf("Hands() = %+v", hands)
	}
	d := cfg.Dispatch()
	if d.Step != 10 || d.Cooldown != 250*time.Millisecond || d.Mode != dispatch.CooldownDeadline {
		t.Errorf("Dispatch() = %+v", d)
	}
	if cfg.QuitKey != 'x' {
		t.Errorf("QuitKey = %q, want 'x'", cfg.QuitKey)
	}
	if cfg.Journal != "/tmp/mudra.db" {
		t.Errorf("Journal = %q", cfg.Journal)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MUDRA_CAMERA", "front")
	t.Setenv("MUDRA_MIN_DETECTION", "high")
	t.Setenv("MUDRA_QUIT_KEY", "quit")

	cfg := Load()

	if cfg.CameraID != 0 {
		t.Errorf("CameraID = %d, want fallback 0", cfg.CameraID)
	}
	if cfg.MinDetection != 0.5 {
		t.Errorf("MinDetection = %f, want fallback 0.5", cfg.MinDetection)
	}
	if cfg.QuitKey != 'q' {
		t.Errorf("QuitKey = %q, want fallback 'q'", cfg.QuitKey)
	}
}

func TestHolisticKeepsTwoHands(t *testing.T) {
	clearEnv(t)
	t.Setenv("MUDRA_VIEWER_MIN_TRACKING", "0.8")

	h := Load().Holistic()
	if h.MaxHands != 2 {
		t.Errorf("MaxHands = %d, want 2", h.MaxHands)
	}
	if h.MinTrackingConf != 0.8 {
		t.Errorf("MinTrackingConf = %f, want 0.8", h.MinTrackingConf)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "negative camera", modify: func(c *Config) { c.CameraID = -1 }},
		{name: "negative width", modify: func(c *Config) { c.FrameWidth = -640 }},
		{name: "zero hands", modify: func(c *Config) { c.MaxHands = 0 }},
		{name: "detection above 1", modify: func(c *Config) { c.MinDetection = 1.2 }},
		{name: "viewer tracking below 0", modify: func(c *Config) { c.ViewerMinTracking = -0.5 }},
		{name: "zero step", modify: func(c *Config) { c.VolumeStep = 0 }},
		{name: "negative cooldown", modify: func(c *Config) { c.Cooldown = -time.Second }},
		{name: "unknown mode", modify: func(c *Config) { c.CooldownMode = "spin" }},
		{name: "multibyte quit key", modify: func(c *Config) { c.QuitKey = 'ж' }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MUDRA_VOLUME_STEP=15\nMUDRA_COOLDOWN_MODE=deadline\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	LoadDotEnv(path)
	t.Cleanup(func() {
		os.Unsetenv("MUDRA_VOLUME_STEP")
		os.Unsetenv("MUDRA_COOLDOWN_MODE")
	})

	cfg := Load()
	if cfg.VolumeStep != 15 {
		t.Errorf("VolumeStep = %d, want 15 from .env", cfg.VolumeStep)
	}
	if cfg.CooldownMode != "deadline" {
		t.Errorf("CooldownMode = %q, want deadline from .env", cfg.CooldownMode)
	}

	// A missing file is not an error.
	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}
