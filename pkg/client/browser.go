package client

import (
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// OpenBrowser opens url in the default browser of the host platform.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "open browser")
	}
	return nil
}
