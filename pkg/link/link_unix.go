//go:build !windows

package link

import (
	"os"

	"github.com/arthur-debert/agentsync/pkg/errors"
)

// tryJunction is a Windows-only tier; on POSIX it always fails so the
// fallback loop moves on.
func tryJunction(destination, source string) error {
	return errors.New(errors.ErrLinkCreate, "junctions only available on Windows")
}

func removeDirectory(path string) error {
	return os.RemoveAll(path)
}

func symlinkUnsupportedReason() string {
	return "symlinks not supported (unexpected on this platform)"
}
