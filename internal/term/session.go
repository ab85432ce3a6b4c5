// Package term runs a shell inside a PTY and pumps its output into an
// ANSI feeder, bridging the process world to the in-memory grid.
package term

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	xpty "github.com/charmbracelet/x/xpty"

	"github.com/dodorz/gridterm/internal/feed"
)

// OutputFunc is called after each chunk of PTY output has been fed
// into the grid, from the reader goroutine, and once more from the
// process monitor goroutine when the shell exits.
type OutputFunc func()

// Session owns a shell process, its PTY and the feeder that interprets
// its output.
type Session struct {
	pty    xpty.Pty
	cmd    *exec.Cmd
	feeder *feed.Feeder

	onOutput OutputFunc
	closed   atomic.Bool
	exited   atomic.Bool
	waitOnce sync.Once
	wg       sync.WaitGroup
}

// DetectShell returns the user's preferred shell, falling back to a
// platform default.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		return "powershell.exe"
	}
	return "/bin/sh"
}

// Start launches shell in a new PTY sized to the feeder's grid and
// begins pumping output. onOutput may be nil.
func Start(f *feed.Feeder, shell string, onOutput OutputFunc) (*Session, error) {
	if shell == "" {
		shell = DetectShell()
	}
	g := f.Grid()

	// xpty requires dimensions at creation time.
	pty, err := xpty.NewPty(g.Width(), g.Height())
	if err != nil {
		return nil, fmt.Errorf("creating pty: %w", err)
	}

	// #nosec G204 - the shell is intentionally user-controlled
	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	if err := pty.Start(cmd); err != nil {
		_ = pty.Close()
		return nil, fmt.Errorf("starting %s: %w", shell, err)
	}
	// Some PTY implementations only accept a size once the process
	// is running.
	_ = pty.Resize(g.Width(), g.Height())

	s := &Session{
		pty:      pty,
		cmd:      cmd,
		feeder:   f,
		onOutput: onOutput,
	}
	s.wg.Add(1)
	go s.pump()
	go s.monitor()
	return s, nil
}

// waitForCmd waits for the shell to exit, ensuring Wait is only
// called once.
func (s *Session) waitForCmd() {
	s.waitOnce.Do(func() {
		_ = s.cmd.Wait()
	})
}

// monitor marks the session exited once the shell goes away and fires
// a final output notification so the consumer notices.
func (s *Session) monitor() {
	s.waitForCmd()
	s.exited.Store(true)
	if s.onOutput != nil {
		s.onOutput()
	}
}

// pump copies PTY output into the feeder until the PTY closes.
func (s *Session) pump() {
	defer s.wg.Done()
	buf := make([]byte, 32*1024)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			_, _ = s.feeder.Write(buf[:n])
			if s.onOutput != nil {
				s.onOutput()
			}
		}
		if err != nil {
			return
		}
	}
}

// SendInput forwards raw input bytes to the shell.
func (s *Session) SendInput(p []byte) error {
	if s.closed.Load() {
		return os.ErrClosed
	}
	_, err := s.pty.Write(p)
	if err != nil {
		return fmt.Errorf("writing to pty: %w", err)
	}
	return nil
}

// Resize resizes the PTY and reflows the grid to match.
func (s *Session) Resize(width, height int) error {
	s.feeder.Grid().Resize(width, height)
	if err := s.pty.Resize(width, height); err != nil {
		return fmt.Errorf("resizing pty: %w", err)
	}
	return nil
}

// Exited reports whether the shell process has gone away.
func (s *Session) Exited() bool {
	return s.exited.Load()
}

// Close terminates the shell and releases the PTY. Safe to call more
// than once.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	err := s.pty.Close()
	s.wg.Wait()
	s.waitForCmd()
	if err != nil {
		return fmt.Errorf("closing pty: %w", err)
	}
	return nil
}
