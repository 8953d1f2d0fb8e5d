// Package dispatch turns gesture labels into volume changes with a cooldown
// between actuations.
package dispatch

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/volume"
)

// Dispatcher defaults.
const (
	// DefaultStep is the volume change per actuation, in percentage points.
	DefaultStep = 5
	// DefaultCooldown is the pause after each actuation.
	DefaultCooldown = 500 * time.Millisecond
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid dispatch config")

// CooldownMode selects how the pause after an actuation is enforced.
type CooldownMode string

const (
	// CooldownBlock sleeps the calling loop for the cooldown after each
	// actuation. Frame capture stalls for the duration.
	CooldownBlock CooldownMode = "block"
	// CooldownDeadline never sleeps. Actuations are suppressed until the
	// cooldown deadline, measured on the monotonic clock, has passed.
	CooldownDeadline CooldownMode = "deadline"
)

// ParseCooldownMode converts a config string to a CooldownMode.
func ParseCooldownMode(s string) (CooldownMode, error) {
	switch CooldownMode(s) {
	case CooldownBlock, CooldownDeadline:
		return CooldownMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown cooldown mode %q", ErrInvalidConfig, s)
}

// State is the dispatcher's position in the control loop state machine.
type State int

const (
	// Idle means no hand was seen in the last frame.
	Idle State = iota
	// Classifying means a hand is present and no cooldown is running.
	Classifying
	// Cooldown means an actuation happened and the cooldown has not elapsed.
	Cooldown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Classifying:
		return "classifying"
	case Cooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config holds dispatcher settings.
type Config struct {
	Step     int
	Cooldown time.Duration
	Mode     CooldownMode
}

// DefaultConfig returns a ±5 step with a blocking 500ms cooldown.
func DefaultConfig() Config {
	return Config{
		Step:     DefaultStep,
		Cooldown: DefaultCooldown,
		Mode:     CooldownBlock,
	}
}

// Validate checks the step, cooldown and mode.
func (c Config) Validate() error {
	if c.Step <= 0 || c.Step > 100 {
		return fmt.Errorf("%w: step must be in 1..100, got %d", ErrInvalidConfig, c.Step)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown must not be negative, got %v", ErrInvalidConfig, c.Cooldown)
	}
	if _, err := ParseCooldownMode(string(c.Mode)); err != nil {
		return err
	}
	return nil
}

// Result describes what Dispatch did with one label.
type Result struct {
	Label gesture.Label
	// Delta is the volume step requested, 0 when nothing was issued.
	Delta int
	// Applied is true when the volume backend accepted the change.
	Applied bool
	// Suppressed is true when an actuation was skipped because the
	// cooldown deadline had not passed (CooldownDeadline only).
	Suppressed bool
	// Paused is how long the caller was blocked (CooldownBlock only).
	Paused time.Duration
}

// Dispatcher maps labels to volume changes. It is not safe for concurrent
// use; the control loop owns it.
type Dispatcher struct {
	volume  volume.Controller
	config  Config
	now     func() time.Time
	sleep   func(time.Duration)
	readyAt time.Time
	state   State
}

// New creates a Dispatcher that drives the given volume controller.
func New(v volume.Controller, config Config) *Dispatcher {
	return &Dispatcher{
		volume: v,
		config: config,
		now:    time.Now,
		sleep:  time.Sleep,
		state:  Idle,
	}
}

// SetClock replaces the time source and sleep function. Used by tests.
func (d *Dispatcher) SetClock(now func() time.Time, sleep func(time.Duration)) {
	d.now = now
	d.sleep = sleep
}

// Config returns the dispatcher settings.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Delta returns the volume step for a label: +Step for Up, -Step for Down,
// 0 for Other.
func (d *Dispatcher) Delta(label gesture.Label) int {
	switch label {
	case gesture.Up:
		return d.config.Step
	case gesture.Down:
		return -d.config.Step
	default:
		return 0
	}
}

// State returns the current state.
func (d *Dispatcher) State() State {
	if d.now().Before(d.readyAt) {
		return Cooldown
	}
	return d.state
}

// NoHand records a frame without a detected hand. Nothing is issued.
func (d *Dispatcher) NoHand() {
	d.state = Idle
}

// Dispatch handles the label of one detected hand. Up and Down issue exactly
// one volume change followed by the cooldown; Other issues nothing and never
// waits. A backend error is returned after the cooldown has been applied.
func (d *Dispatcher) Dispatch(label gesture.Label) (Result, error) {
	result := Result{Label: label}
	d.state = Classifying

	delta := d.Delta(label)
	if delta == 0 {
		return result, nil
	}

	if d.config.Mode == CooldownDeadline && d.now().Before(d.readyAt) {
		result.Suppressed = true
		return result, nil
	}

	result.Delta = delta
	err := d.volume.ChangeVolume(delta)
	if err != nil {
		err = fmt.Errorf("change volume by %d: %w", delta, err)
	} else {
		result.Applied = true
		log.Printf("Gesture %s: volume %+d", label, delta)
	}

	switch d.config.Mode {
	case CooldownDeadline:
		d.readyAt = d.now().Add(d.config.Cooldown)
	default:
		d.state = Cooldown
		d.sleep(d.config.Cooldown)
		d.state = Classifying
		result.Paused = d.config.Cooldown
	}

	return result, err
}
