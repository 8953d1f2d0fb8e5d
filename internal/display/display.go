// Package display shows frames in a window and polls the keyboard for the
// quit key.
package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// DefaultQuitKey ends a session when pressed in the window.
const DefaultQuitKey = 'q'

// NoKey is returned by PollKey when nothing was pressed.
const NoKey = -1

// Sink shows frames and reports key presses.
type Sink interface {
	// Show draws the frame in the window.
	Show(frame *gocv.Mat)
	// PollKey waits about 1ms for a key and returns its code, or NoKey.
	PollKey() int
	Close() error
}

// IsQuit reports whether key, masked to its low byte, is the quit key.
func IsQuit(key int, quitKey rune) bool {
	if key < 0 {
		return false
	}
	return rune(key&0xFF) == quitKey
}

// Window is a Sink backed by an OpenCV HighGUI window.
type Window struct {
	window *gocv.Window
	mu     sync.Mutex
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

// Show displays the frame.
func (w *Window) Show(frame *gocv.Mat) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil || frame == nil || frame.Empty() {
		return
	}
	w.window.IMShow(*frame)
}

// PollKey waits 1ms for a key press; this is also when the window repaints.
func (w *Window) PollKey() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil {
		return NoKey
	}
	return w.window.WaitKey(1)
}

// Close destroys the window. Calling Close twice is safe.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}
