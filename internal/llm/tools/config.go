package tools

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

var (
	rootMu         sync.RWMutex
	repositoryRoot string
)

// SetRepositoryRoot confines every tool to the given directory. Must be
// called before the agent runs.
func SetRepositoryRoot(root string) {
	rootMu.Lock()
	defer rootMu.Unlock()
	repositoryRoot = filepath.Clean(root)
}

// resolveInRoot turns a repo-relative path into an absolute one, rejecting
// anything that escapes the repository root.
func resolveInRoot(rel string) (string, error) {
	rootMu.RLock()
	root := repositoryRoot
	rootMu.RUnlock()

	if root == "" {
		return "", fmt.Errorf("repository root not configured")
	}
	full := filepath.Clean(filepath.Join(root, filepath.FromSlash(rel)))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the repository", rel)
	}
	return full, nil
}
