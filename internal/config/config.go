// Package config loads mudra's runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/display"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Camera
	CameraID    int
	FrameWidth  int // 0 keeps the device default
	FrameHeight int

	// Hand detection for gesture control
	MaxHands     int
	MinDetection float64
	MinTracking  float64

	// Holistic detection for the viewer
	ViewerMinDetection float64
	ViewerMinTracking  float64

	// Volume actuation
	VolumeStep   int
	Cooldown     time.Duration
	CooldownMode string // block or deadline

	QuitKey rune

	// Journal is the SQLite file for the actuation journal; empty disables it.
	Journal string
}

// LoadDotEnv loads a .env file into the environment if one exists. Variables
// already set are not overridden.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Println("No .env file found, using system environment variables")
		return
	}
	log.Println("Loaded environment variables from .env file")
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		CameraID:    envInt("MUDRA_CAMERA", 0),
		FrameWidth:  envInt("MUDRA_FRAME_WIDTH", 0),
		FrameHeight: envInt("MUDRA_FRAME_HEIGHT", 0),

		MaxHands:     envInt("MUDRA_MAX_HANDS", 1),
		MinDetection: envFloat("MUDRA_MIN_DETECTION", 0.5),
		MinTracking:  envFloat("MUDRA_MIN_TRACKING", 0.2),

		ViewerMinDetection: envFloat("MUDRA_VIEWER_MIN_DETECTION", 0.5),
		ViewerMinTracking:  envFloat("MUDRA_VIEWER_MIN_TRACKING", 0.5),

		VolumeStep:   envInt("MUDRA_VOLUME_STEP", dispatch.DefaultStep),
		Cooldown:     time.Duration(envInt("MUDRA_COOLDOWN_MS", 500)) * time.Millisecond,
		CooldownMode: envStr("MUDRA_COOLDOWN_MODE", string(dispatch.CooldownBlock)),

		QuitKey: envRune("MUDRA_QUIT_KEY", display.DefaultQuitKey),

		Journal: envStr("MUDRA_JOURNAL", ""),
	}
}

// Validate rejects settings the components would refuse.
func (c Config) Validate() error {
	if c.CameraID < 0 {
		return fmt.Errorf("%w: camera index must not be negative, got %d", ErrInvalid, c.CameraID)
	}
	if c.FrameWidth < 0 || c.FrameHeight < 0 {
		return fmt.Errorf("%w: frame size must not be negative, got %dx%d", ErrInvalid, c.FrameWidth, c.FrameHeight)
	}
	if c.QuitKey <= 0 || c.QuitKey > 0xFF {
		return fmt.Errorf("%w: quit key must be a single byte character, got %q", ErrInvalid, c.QuitKey)
	}
	if err := c.Hands().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Holistic().Validate(); err != nil {
		return fmt.Errorf("%w: viewer: %v", ErrInvalid, err)
	}
	if err := c.Dispatch().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Capture returns the camera settings.
func (c Config) Capture() capture.Config {
	return capture.Config{
		DeviceID: c.CameraID,
		Width:    c.FrameWidth,
		Height:   c.FrameHeight,
	}
}

// Hands returns the detector settings for gesture control.
func (c Config) Hands() detector.Config {
	return detector.Config{
		MaxHands:        c.MaxHands,
		MinConfidence:   c.MinDetection,
		MinTrackingConf: c.MinTracking,
	}
}

// Holistic returns the detector settings for the viewer.
func (c Config) Holistic() detector.Config {
	cfg := detector.DefaultHolisticConfig()
	cfg.MinConfidence = c.ViewerMinDetection
	cfg.MinTrackingConf = c.ViewerMinTracking
	return cfg
}

// Dispatch returns the actuation settings.
func (c Config) Dispatch() dispatch.Config {
	return dispatch.Config{
		Step:     c.VolumeStep,
		Cooldown: c.Cooldown,
		Mode:     dispatch.CooldownMode(c.CooldownMode),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envRune takes the only rune of the value; anything longer is ignored.
func envRune(key string, fallback rune) rune {
	v := os.Getenv(key)
	if utf8.RuneCountInString(v) != 1 {
		return fallback
	}
	r, _ := utf8.DecodeRuneInString(v)
	return r
}
