package services

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yargevad/filepathx"

	"javadocbot/internal/models"
)

// ChangeLister lists the Java files that changed between two commits.
// GitService satisfies it; tests substitute a fake.
type ChangeLister interface {
	ChangedJavaFiles(from, to string) ([]string, error)
}

// ResolverService decides which files a run will process: everything on a
// first or forced run, only the commit delta otherwise, with exclusion
// filters applied in both modes.
type ResolverService struct {
	cloneDir        string
	excludePatterns []string
	excludeTests    bool
}

func NewResolverService(cloneDir string, excludePatterns []string, excludeTests bool) *ResolverService {
	return &ResolverService{
		cloneDir:        cloneDir,
		excludePatterns: excludePatterns,
		excludeTests:    excludeTests,
	}
}

// Resolve produces the change set for a run. The mode is FULL when the state
// marks a first run or the caller forces it, INCREMENTAL otherwise.
func (r *ResolverService) Resolve(state *models.RunState, headCommit string, lister ChangeLister, forceFull bool) (models.ChangeSet, error) {
	if state.IsFirstRun || forceFull {
		files, err := r.allJavaFiles()
		if err != nil {
			return models.ChangeSet{}, err
		}
		log.Printf("full resolution: %d java files", len(files))
		return models.ChangeSet{Mode: models.ModeFull, Files: files}, nil
	}

	if state.LastCommit == headCommit {
		log.Printf("head %s unchanged since last run", headCommit)
		return models.ChangeSet{Mode: models.ModeIncremental, Files: nil}, nil
	}

	changed, err := lister.ChangedJavaFiles(state.LastCommit, headCommit)
	if err != nil {
		return models.ChangeSet{}, err
	}
	files := r.filter(changed)
	log.Printf("incremental resolution: %d of %d changed files kept", len(files), len(changed))
	return models.ChangeSet{Mode: models.ModeIncremental, Files: files}, nil
}

// allJavaFiles walks the clone for every Java source, returned as sorted
// repo-relative slash paths with the exclusion filters applied.
func (r *ResolverService) allJavaFiles() ([]string, error) {
	matches, err := filepathx.Glob(filepath.Join(r.cloneDir, "**", "*.java"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for java files: %w", r.cloneDir, err)
	}

	var rel []string
	for _, m := range matches {
		p, err := filepath.Rel(r.cloneDir, m)
		if err != nil {
			continue
		}
		rel = append(rel, filepath.ToSlash(p))
	}
	return r.filter(rel), nil
}

// filter drops excluded paths and returns the remainder sorted and deduped.
func (r *ResolverService) filter(paths []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		if !strings.HasSuffix(p, ".java") || seen[p] || r.excluded(p) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (r *ResolverService) excluded(path string) bool {
	if r.excludeTests && underTestRoot(path) {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range r.excludePatterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
		// bare patterns like "*Generated.java" should match by file name
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// underTestRoot reports whether any directory segment of the path is a test
// source root ("test" or "tests").
func underTestRoot(path string) bool {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for _, seg := range segments[:len(segments)-1] {
		if seg == "test" || seg == "tests" {
			return true
		}
	}
	return false
}
