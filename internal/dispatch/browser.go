package dispatch

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// BrowserOpener opens links with the desktop's default handler. It never
// confirms a launch, so a scheduled fallback always fires.
type BrowserOpener struct{}

func (BrowserOpener) Open(_ context.Context, link string) (bool, error) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", link)
	case "linux":
		cmd = exec.Command("xdg-open", link)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		return false, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("failed to launch %s: %w", cmd.Path, err)
	}
	go func() { _ = cmd.Wait() }()
	return false, nil
}
