// Package volume changes the system output volume through an OS-specific backend.
package volume

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnsupportedPlatform is returned by New when no backend exists for the OS.
var ErrUnsupportedPlatform = errors.New("volume control is not implemented for this operating system")

// Controller changes the default output device volume by a signed step in
// percentage points. Implementations clamp the result to the device range.
type Controller interface {
	ChangeVolume(delta int) error
}

// Factory builds the Controller for one platform.
type Factory func() (Controller, error)

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]Factory)
)

// Register makes a backend available for the given GOOS value.
// Backends register themselves from init functions.
func Register(goos string, f Factory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[goos] = f
}

// Platforms returns the GOOS values that have a registered backend.
func Platforms() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the Controller for the given platform (usually runtime.GOOS).
// It is meant to be called once at startup so a missing backend stops the
// program before the camera is opened.
func New(goos string) (Controller, error) {
	backendsMu.RLock()
	f, ok := backends[goos]
	backendsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	return f()
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
