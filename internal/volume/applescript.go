package volume

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// DefaultScriptTimeout bounds a single osascript invocation.
const DefaultScriptTimeout = 5 * time.Second

func init() {
	Register("darwin", func() (Controller, error) {
		return NewAppleScriptController(), nil
	})
}

// changeVolumeScript reads the current output volume, applies the delta and
// clamps the result to 0..100 before writing it back.
const changeVolumeScript = `tell application "System Events"
	set currentVolume to output volume of (get volume settings)
	set newVolume to currentVolume + (%d)
	if newVolume < 0 then
		set newVolume to 0
	else if newVolume > 100 then
		set newVolume to 100
	end if
	set volume output volume newVolume
end tell`

// ScriptRunner executes an AppleScript source and returns its combined output.
type ScriptRunner func(ctx context.Context, script string) ([]byte, error)

// AppleScriptController changes the macOS output volume via osascript.
type AppleScriptController struct {
	run       ScriptRunner
	timeoutMs int
}

// NewAppleScriptController creates a controller that shells out to osascript.
func NewAppleScriptController() *AppleScriptController {
	return &AppleScriptController{
		run:       runOSAScript,
		timeoutMs: int(DefaultScriptTimeout / time.Millisecond),
	}
}

// WithRunner replaces the script runner. Used by tests.
func (c *AppleScriptController) WithRunner(run ScriptRunner) *AppleScriptController {
	c.run = run
	return c
}

// ChangeVolume adds delta percentage points to the output volume.
func (c *AppleScriptController) ChangeVolume(delta int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.timeoutMs)*time.Millisecond)
	defer cancel()

	output, err := c.run(ctx, volumeScript(delta))

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("osascript timeout after %dms", c.timeoutMs)
	}
	if err != nil {
		if len(output) > 0 {
			return fmt.Errorf("change volume by %d: %w: %s", delta, err, string(output))
		}
		return fmt.Errorf("change volume by %d: %w", delta, err)
	}

	return nil
}

// volumeScript renders the AppleScript for one volume change.
func volumeScript(delta int) string {
	return fmt.Sprintf(changeVolumeScript, delta)
}

// runOSAScript executes an AppleScript command and returns its output.
func runOSAScript(ctx context.Context, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	return cmd.CombinedOutput()
}
