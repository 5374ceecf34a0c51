// Package clipboard resolves, once per run, how text reaches the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard mechanism exists on this host.
var ErrUnavailable = errors.New("clipboard unavailable")

// Provider delivers text to a clipboard.
type Provider interface {
	// Available reports why copying cannot work, or nil if it can.
	Available() error
	// Copy replaces the clipboard contents with text.
	Copy(text string) error
}

// System copies through the platform's clipboard utility
// (pbcopy, clip.exe, xclip, xsel, wl-copy or termux-clipboard-set).
type System struct{}

// Available implements Provider.
func (System) Available() error {
	if clipboard.Unsupported {
		return Unavailable{Reason: hint(runtime.GOOS)}.Available()
	}
	return nil
}

// Copy implements Provider.
func (System) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Unavailable is the provider for hosts without a clipboard.
type Unavailable struct {
	Reason string
}

// Available implements Provider.
func (u Unavailable) Available() error {
	if u.Reason == "" {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, u.Reason)
}

// Copy implements Provider.
func (u Unavailable) Copy(string) error {
	return u.Available()
}

// Detect picks the provider for the running platform.
func Detect() Provider {
	if clipboard.Unsupported {
		return Unavailable{Reason: hint(runtime.GOOS)}
	}
	return System{}
}

func hint(goos string) string {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "install xclip, xsel or wl-clipboard"
	case "android":
		return "install termux-api"
	default:
		return "no clipboard utility found for " + goos
	}
}
