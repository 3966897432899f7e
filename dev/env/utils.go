package devenv

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const moduleName = "fulldisclosure-backend"

// StatePrefix marks a path as relative to dev/.state in the workspace root.
const StatePrefix = "<dev_state>"

var modName = regexp.MustCompile(`(?m)^module +([\w\-./]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == moduleName
}

func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs("/")
	if err != nil {
		return "", err
	}

	for currentdir != root {
		if isWorkspaceRoot(currentdir) {
			return currentdir, nil
		}
		currentdir = filepath.Dir(currentdir)
	}

	return "", os.ErrNotExist
}

// FallbackStateDir is used in place of dev/.state when no workspace root
// can be found, as is the case for a deployed binary.
const FallbackStateDir = "state"

// ResolvePath returns path unchanged unless it starts with StatePrefix,
// in which case it is rewritten to live under <workspace>/dev/.state, or
// under FallbackStateDir relative to the working directory outside a workspace.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, StatePrefix) {
		return path, nil
	}

	stateDir := FallbackStateDir
	root, err := GetWorkspaceRoot()
	if err == nil {
		stateDir = filepath.Join(root, "dev", ".state")
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	err = os.MkdirAll(stateDir, 0777)
	if err != nil {
		return "", err
	}

	subpath := strings.TrimPrefix(strings.TrimPrefix(path, StatePrefix), string(os.PathSeparator))
	return filepath.Join(stateDir, subpath), nil
}
