package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// Candidate is a way of opening a URL on the current platform
type Candidate struct {
	Name    string
	Command string
	Args    []string // the URL is appended
}

// Launcher opens the viewer URL, preferring the configured browser
type Launcher struct {
	preferred  string
	candidates []Candidate
	lookPath   func(string) (string, error)
	start      func(name string, args ...string) error
}

// NewLauncher creates a launcher for the current platform
func NewLauncher(cfg entities.BrowserConfig) *Launcher {
	return &Launcher{
		preferred:  strings.ToLower(cfg.Browser),
		candidates: platformCandidates(runtime.GOOS),
		lookPath:   exec.LookPath,
		start:      startDetached,
	}
}

// Launch opens url unless noOpen is set
func (l *Launcher) Launch(url string, noOpen bool) error {
	if noOpen {
		return nil
	}

	c, err := l.selectCandidate()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	args := append(append([]string{}, c.Args...), url)
	if err := l.start(c.Command, args...); err != nil {
		return fmt.Errorf("launching %s: %w", c.Name, err)
	}
	return nil
}

// Detect returns the name of the browser Launch would use
func (l *Launcher) Detect() (string, error) {
	c, err := l.selectCandidate()
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

func (l *Launcher) selectCandidate() (Candidate, error) {
	if len(l.candidates) == 0 {
		return Candidate{}, errors.New("no browsers known for this platform")
	}

	available := make([]Candidate, 0, len(l.candidates))
	for _, c := range l.candidates {
		if _, err := l.lookPath(c.Command); err == nil {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return Candidate{}, errors.New("no supported browsers found on this system")
	}

	if l.preferred != "" && l.preferred != "default" {
		for _, c := range available {
			if strings.ToLower(c.Name) == l.preferred {
				return c, nil
			}
		}
	}
	return available[0], nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 - command comes from the platform table
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// platformCandidates lists the system opener first, then named browsers
func platformCandidates(goos string) []Candidate {
	switch goos {
	case "darwin":
		return []Candidate{
			{Name: "default", Command: "open"},
			{Name: "chrome", Command: "open", Args: []string{"-a", "Google Chrome"}},
			{Name: "safari", Command: "open", Args: []string{"-a", "Safari"}},
			{Name: "firefox", Command: "open", Args: []string{"-a", "Firefox"}},
		}
	case "linux", "freebsd", "openbsd":
		return []Candidate{
			{Name: "default", Command: "xdg-open"},
			{Name: "chrome", Command: "google-chrome"},
			{Name: "chromium", Command: "chromium"},
			{Name: "firefox", Command: "firefox"},
		}
	case "windows":
		return []Candidate{
			{Name: "default", Command: "rundll32", Args: []string{"url.dll,FileProtocolHandler"}},
			{Name: "chrome", Command: "cmd", Args: []string{"/c", "start", "chrome"}},
			{Name: "edge", Command: "cmd", Args: []string{"/c", "start", "msedge"}},
		}
	default:
		return nil
	}
}

// Ensure Launcher implements ports.BrowserLauncher
var _ ports.BrowserLauncher = (*Launcher)(nil)
