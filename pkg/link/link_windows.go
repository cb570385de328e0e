//go:build windows

package link

import (
	"os"
	"os/exec"

	"github.com/arthur-debert/agentsync/pkg/errors"
)

// tryJunction creates a directory junction via mklink. Junctions work
// without Developer Mode, unlike symlinks.
func tryJunction(destination, source string) error {
	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return errors.New(errors.ErrLinkCreate, "junctions only work for directories")
	}

	cmd := exec.Command("cmd", "/c", "mklink", "/J", destination, source)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, errors.ErrLinkCreate, "mklink /J failed: %s", out)
	}
	return nil
}

// removeDirectory removes a directory or junction. rmdir removes a
// junction without following it into the source tree; fall back to a
// recursive removal for real directories.
func removeDirectory(path string) error {
	cmd := exec.Command("cmd", "/c", "rmdir", path)
	if err := cmd.Run(); err == nil {
		return nil
	}
	return os.RemoveAll(path)
}

func symlinkUnsupportedReason() string {
	return "symlinks require Developer Mode or Administrator privileges; junctions, hard links, or copies will be used instead"
}
