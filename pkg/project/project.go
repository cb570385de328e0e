// Package project detects project roots and classifies the project
// type for project-scoped deployments.
package project

import (
	"os"
	"path/filepath"
)

// Type is the detected project kind, derived from manifest files at
// the root.
type Type string

const (
	TypeNode    Type = "node"
	TypeRust    Type = "rust"
	TypePython  Type = "python"
	TypeGo      Type = "go"
	TypeJava    Type = "java"
	TypeUnknown Type = "unknown"
)

// Indicators are the files and directories whose presence marks a
// directory as a project root.
var Indicators = []string{
	".git",
	"package.json",
	"Cargo.toml",
	"pyproject.toml",
	"go.mod",
	"Makefile",
	".agentsync",
	"requirements.txt",
	"setup.py",
	"pom.xml",
	"build.gradle",
	"CMakeLists.txt",
}

// Info describes a detected project.
type Info struct {
	Root string
	Type Type
	Name string
}

// DetectRoot walks up from the current working directory looking for
// a project root. Returns "" when none is found.
func DetectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return DetectRootFrom(cwd)
}

// DetectRootFrom walks up from start looking for a directory carrying
// a project indicator. Returns "" when the filesystem root is reached
// without a match.
func DetectRootFrom(start string) string {
	current := filepath.Clean(start)
	for {
		if hasIndicator(current) {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// IsValidRoot reports whether path is an existing directory carrying
// at least one project indicator.
func IsValidRoot(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return hasIndicator(path)
}

// Describe builds project information for a detected root. Returns
// nil when the root does not exist.
func Describe(root string) *Info {
	if _, err := os.Stat(root); err != nil {
		return nil
	}
	return &Info{
		Root: root,
		Type: detectType(root),
		Name: filepath.Base(root),
	}
}

func hasIndicator(dir string) bool {
	for _, indicator := range Indicators {
		if _, err := os.Lstat(filepath.Join(dir, indicator)); err == nil {
			return true
		}
	}
	return false
}

func detectType(root string) Type {
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(root, name))
		return err == nil
	}
	switch {
	case exists("package.json"):
		return TypeNode
	case exists("Cargo.toml"):
		return TypeRust
	case exists("pyproject.toml") || exists("setup.py"):
		return TypePython
	case exists("go.mod"):
		return TypeGo
	case exists("pom.xml") || exists("build.gradle"):
		return TypeJava
	default:
		return TypeUnknown
	}
}
