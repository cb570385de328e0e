// Package link creates filesystem links with a best-effort fallback
// chain. A native symlink is always preferred; when it cannot be created
// (permissions, filesystem, platform) the creator degrades through
// junction (Windows directories), hard link (files), and finally a plain
// copy, always reporting which tier succeeded so callers can surface the
// degradation.
package link

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Warnings surfaced when a fallback tier is used.
const (
	WarnJunction = "used a directory junction instead of a symlink; enable Developer Mode for true symlinks"
	WarnHardlink = "used a hard link instead of a symlink; changes to either file affect both"
	WarnCopy     = "copied files instead of linking; future source updates will not propagate until re-synced"
)

// CreateLink links destination to source, degrading through the fallback
// chain. It returns the method that succeeded and an optional warning
// describing the degradation.
//
// The source must exist. If the destination already resolves to the same
// underlying file as the source, LinkExisting is returned and nothing is
// mutated. A pre-existing destination that is not a symlink is never
// deleted, even with force set; only symlinks are replaced.
func CreateLink(destination, source string, force bool) (types.LinkMethod, string, error) {
	logger := logging.GetLogger("link")

	destination, err := filepath.Abs(destination)
	if err != nil {
		return "", "", errors.FSWrap(err, destination, "cannot resolve destination path")
	}
	source, err = filepath.Abs(source)
	if err != nil {
		return "", "", errors.FSWrap(err, source, "cannot resolve source path")
	}

	// Canonicalize the source so links do not point through other links.
	if resolved, err := filepath.EvalSymlinks(source); err == nil {
		source = resolved
	}

	srcInfo, err := os.Stat(source)
	if err != nil {
		return "", "", errors.Newf(errors.ErrSourceNotFound, "link source does not exist: %s", source).
			WithDetail("path", source)
	}
	srcIsDir := srcInfo.IsDir()

	// Lstat so a dangling symlink at the destination still counts as
	// present.
	if _, err := os.Lstat(destination); err == nil {
		if samePath(destination, source) {
			logger.Debug().Str("dest", destination).Str("source", source).
				Msg("destination already points at source")
			return types.LinkExisting, "", nil
		}

		if !force {
			return "", "", errors.Newf(errors.ErrLinkExists, "link path already exists: %s", destination).
				WithDetail("path", destination)
		}

		// force only replaces symlinks. A plain file or directory here is
		// user data we refuse to destroy.
		info, lerr := os.Lstat(destination)
		if lerr == nil && info.Mode()&os.ModeSymlink != 0 {
			if err := os.Remove(destination); err != nil {
				return "", "", errors.FSWrap(err, destination, "cannot remove existing symlink")
			}
		} else {
			return "", "", errors.Newf(errors.ErrWouldOverwrite,
				"refusing to overwrite existing non-link path: %s", destination).
				WithDetail("path", destination)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return "", "", errors.FSWrap(err, destination, "cannot create parent directory")
	}

	// Tier 1: native symlink.
	if err := os.Symlink(source, destination); err == nil {
		return types.LinkSymlink, "", nil
	} else {
		logger.Debug().Err(err).Str("dest", destination).Msg("symlink failed, trying fallbacks")
	}

	// Tier 2: directory junction, Windows only.
	if srcIsDir {
		if err := tryJunction(destination, source); err == nil {
			return types.LinkJunction, WarnJunction, nil
		}
	}

	// Tier 3: hard link, files only.
	if !srcIsDir {
		if err := os.Link(source, destination); err == nil {
			return types.LinkHardlink, WarnHardlink, nil
		}
	}

	// Tier 4: plain copy.
	if err := copyAll(source, destination, srcIsDir); err == nil {
		return types.LinkCopy, WarnCopy, nil
	} else {
		logger.Error().Err(err).Str("dest", destination).Str("source", source).
			Msg("all link methods failed")
		return "", "", errors.Wrapf(err, errors.ErrLinkCreate,
			"all linking methods failed for %s", destination)
	}
}

// RemoveLink removes whatever CreateLink put at path: symlink, junction,
// hard link, or copied file/directory. A missing path is a no-op.
func RemoveLink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.FSWrap(err, path, "cannot stat link path")
	}

	if info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		// A real directory or a junction.
		if err := removeDirectory(path); err != nil {
			return errors.FSWrap(err, path, "cannot remove linked directory")
		}
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errors.FSWrap(err, path, "cannot remove link")
	}
	return nil
}

// samePath reports whether two paths resolve to the same underlying file
// or directory. The checks run in a fixed order: symlink target match,
// canonical path equality, then OS file identity (device+inode on POSIX,
// file index on Windows) which also catches hard links.
func samePath(a, b string) bool {
	if target, err := os.Readlink(a); err == nil {
		if target == b {
			return true
		}
		if resolved, err := filepath.EvalSymlinks(target); err == nil {
			if canonical, err := filepath.EvalSymlinks(b); err == nil && resolved == canonical {
				return true
			}
		}
	}

	aCanon, errA := filepath.EvalSymlinks(a)
	bCanon, errB := filepath.EvalSymlinks(b)
	if errA == nil && errB == nil && aCanon == bCanon {
		return true
	}

	aInfo, errA := os.Stat(a)
	bInfo, errB := os.Stat(b)
	if errA == nil && errB == nil && os.SameFile(aInfo, bInfo) {
		return true
	}

	return false
}

// CheckSymlinkSupport probes whether the current environment can create
// symlinks without elevated privileges.
func CheckSymlinkSupport() (bool, string) {
	tempDir := os.TempDir()
	target := filepath.Join(tempDir, "agentsync_symlink_probe_target")
	probe := filepath.Join(tempDir, "agentsync_symlink_probe_link")

	_ = os.Remove(target)
	_ = os.Remove(probe)

	if err := os.WriteFile(target, []byte("probe"), 0644); err != nil {
		return false, "could not create probe file"
	}
	defer func() {
		_ = os.Remove(probe)
		_ = os.Remove(target)
	}()

	if err := os.Symlink(target, probe); err != nil {
		return false, symlinkUnsupportedReason()
	}
	return true, "symlinks supported"
}

func copyAll(source, destination string, isDir bool) error {
	if isDir {
		return copyDir(source, destination)
	}
	return copyFile(source, destination)
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copyDir(source, destination string) error {
	if err := os.MkdirAll(destination, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(source, entry.Name())
		dstPath := filepath.Join(destination, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}
