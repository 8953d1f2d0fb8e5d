package detector

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// DefaultIdleTimeout is how long the sidecar may sit unused before it is stopped.
const DefaultIdleTimeout = 30 * time.Second

// ErrScriptNotFound is returned when mediapipe_service.py cannot be located.
var ErrScriptNotFound = errors.New("mediapipe_service.py not found")

// sidecar manages the Python MediaPipe process. Frames go in on stdin as a
// 4-byte big-endian length followed by JPEG bytes; one JSON line comes back
// on stdout per frame.
type sidecar struct {
	args        []string
	idleTimeout time.Duration
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      *bufio.Reader
	mu          sync.Mutex
	started     bool
	lastUsed    time.Time
	idleTimer   *time.Timer
}

func newSidecar(mode string, config Config) *sidecar {
	return &sidecar{
		args:        sidecarArgs(mode, config),
		idleTimeout: DefaultIdleTimeout,
	}
}

// sidecarArgs builds the command line passed to mediapipe_service.py.
func sidecarArgs(mode string, config Config) []string {
	return []string{
		"--mode", mode,
		"--max-hands", strconv.Itoa(config.MaxHands),
		"--min-detection", strconv.FormatFloat(config.MinConfidence, 'f', -1, 64),
		"--min-tracking", strconv.FormatFloat(config.MinTrackingConf, 'f', -1, 64),
	}
}

// roundTrip sends one frame and returns the raw JSON response line.
func (s *sidecar) roundTrip(frame *gocv.Mat) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("empty frame")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return s.send(buf.GetBytes())
}

// send writes one encoded frame and reads the response line. Any pipe error
// shuts the process down so the next frame starts a fresh one. The caller
// holds s.mu.
func (s *sidecar) send(data []byte) ([]byte, error) {
	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := s.stdin.Write(length); err != nil {
		s.shutdown()
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := s.stdin.Write(data); err != nil {
		s.shutdown()
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := s.stdout.ReadBytes('\n')
	if err != nil {
		// The process is gone or wedged; restart it on the next frame.
		s.shutdown()
		return nil, fmt.Errorf("read response: %w", err)
	}

	s.lastUsed = time.Now()
	s.resetIdleTimer()

	return line, nil
}

func (s *sidecar) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown()
}

func (s *sidecar) ensureStarted() error {
	if s.started {
		return nil
	}

	scriptPath := findMediaPipeScript()
	if scriptPath == "" {
		return ErrScriptNotFound
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	s.cmd = exec.Command(pythonPath, append([]string{scriptPath}, s.args...)...)

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Model warnings go straight to our stderr
	s.cmd.Stderr = os.Stderr

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)
	s.started = true
	s.lastUsed = time.Now()

	return nil
}

func (s *sidecar) shutdown() error {
	if !s.started {
		return nil
	}

	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}

	if s.stdin != nil {
		s.stdin.Close()
	}

	err := s.cmd.Wait()
	s.started = false
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil

	return err
}

func (s *sidecar) resetIdleTimer() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(s.idleTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.shutdown()
	})
}

func findMediaPipeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		filepath.Join(execDir, "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/mediapipe_service.py"),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment
// next to the working directory, the executable, or under ~/.mudra.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
