package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"javadocbot/internal/utils"
)

// HistoryDivergedError reports that the previously recorded commit no longer
// exists in the tracked branch's history, e.g. after a rewrite. Falling back
// to a full run is an operator decision (the --full flag), never automatic.
type HistoryDivergedError struct {
	Commit string
}

func (e *HistoryDivergedError) Error() string {
	return fmt.Sprintf("recorded commit %s not found in repository history", e.Commit)
}

// GitService is the source provider: it owns the working clone of the
// tracked repository and every mutation of it.
type GitService struct {
	repoURL     string
	cloneDir    string
	branch      string
	accessToken string
	authorName  string
	authorEmail string

	repo *git.Repository
}

func NewGitService(repoURL, cloneDir, branch, accessToken, authorName, authorEmail string) *GitService {
	return &GitService{
		repoURL:     repoURL,
		cloneDir:    cloneDir,
		branch:      branch,
		accessToken: accessToken,
		authorName:  authorName,
		authorEmail: authorEmail,
	}
}

// CloneDir returns the path of the working clone.
func (g *GitService) CloneDir() string { return g.cloneDir }

// TrackedBranch returns the branch this service monitors.
func (g *GitService) TrackedBranch() string { return g.branch }

// authURL injects the access token into an https remote URL, the way the
// hosting side expects project tokens (oauth2:<token>@host).
func (g *GitService) authURL() string {
	if g.accessToken == "" || !strings.HasPrefix(g.repoURL, "https://") {
		return g.repoURL
	}
	rest := strings.TrimPrefix(g.repoURL, "https://")
	return fmt.Sprintf("https://oauth2:%s@%s", g.accessToken, rest)
}

// EnsureRepository opens the working clone, cloning it first when the
// directory does not hold one yet.
func (g *GitService) EnsureRepository() error {
	if utils.HasGitRepo(g.cloneDir) {
		repo, err := git.PlainOpen(g.cloneDir)
		if err != nil {
			return fmt.Errorf("failed to open repository at %s: %w", g.cloneDir, err)
		}
		g.repo = repo
		log.Printf("repository already present at %s", g.cloneDir)
		return nil
	}

	if err := os.MkdirAll(g.cloneDir, 0o755); err != nil {
		return fmt.Errorf("failed to create clone directory: %w", err)
	}
	log.Printf("cloning %s into %s", g.repoURL, g.cloneDir)
	repo, err := git.PlainClone(g.cloneDir, false, &git.CloneOptions{
		URL: g.authURL(),
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	g.repo = repo
	return nil
}

// PullTracked checks out the tracked branch and pulls it up to date.
func (g *GitService) PullTracked() error {
	if g.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	if err := g.checkoutTracked(); err != nil {
		return err
	}

	w, err := g.repo.Worktree()
	if err != nil {
		return err
	}
	err = w.Pull(&git.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(g.branch),
		SingleBranch:  true,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to pull %s: %w", g.branch, err)
	}
	log.Printf("tracked branch %s is up to date", g.branch)
	return nil
}

// checkoutTracked checks out the tracked branch, seeding a local branch from
// the remote ref when a fresh clone only has the default branch locally.
func (g *GitService) checkoutTracked() error {
	w, err := g.repo.Worktree()
	if err != nil {
		return err
	}

	branchRef := plumbing.NewBranchReferenceName(g.branch)
	if err := w.Checkout(&git.CheckoutOptions{Branch: branchRef}); err == nil {
		return nil
	}

	remoteRef, err := g.repo.Reference(plumbing.NewRemoteReferenceName("origin", g.branch), true)
	if err != nil {
		return fmt.Errorf("branch %s not found locally or on origin: %w", g.branch, err)
	}
	if err := g.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, remoteRef.Hash())); err != nil {
		return fmt.Errorf("failed to create local branch %s: %w", g.branch, err)
	}
	return w.Checkout(&git.CheckoutOptions{Branch: branchRef})
}

// CurrentHead returns the commit hash the working clone currently points at.
func (g *GitService) CurrentHead() (string, error) {
	if g.repo == nil {
		return "", fmt.Errorf("repository not initialized")
	}
	ref, err := g.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}
	return ref.Hash().String(), nil
}

// ChangedJavaFiles returns the Java sources added or modified between two
// commits, as sorted repo-relative slash paths. Deletions are excluded: a
// removed file has nothing left to document.
func (g *GitService) ChangedJavaFiles(from, to string) ([]string, error) {
	if g.repo == nil {
		return nil, fmt.Errorf("repository not initialized")
	}

	fromCommit, err := g.repo.CommitObject(plumbing.NewHash(from))
	if err != nil {
		return nil, &HistoryDivergedError{Commit: from}
	}
	toCommit, err := g.repo.CommitObject(plumbing.NewHash(to))
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", to, err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for %s: %w", from, err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for %s: %w", to, err)
	}

	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve change action: %w", err)
		}
		if action != merkletrie.Insert && action != merkletrie.Modify {
			continue
		}
		name := change.To.Name
		if !strings.HasSuffix(name, ".java") || seen[name] {
			continue
		}
		seen[name] = true
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile returns the content of a file in the working clone.
func (g *GitService) ReadFile(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(g.cloneDir, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	return string(data), nil
}

// WriteFile replaces the content of a file in the working clone.
func (g *GitService) WriteFile(relPath, content string) error {
	full := filepath.Join(g.cloneDir, filepath.FromSlash(relPath))
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}

// DocumentationBranchName returns the date-stamped output branch name for
// the tracked branch.
func (g *GitService) DocumentationBranchName(date string) string {
	return fmt.Sprintf("%s_documented_%s", g.branch, date)
}

// CreateDocumentationBranch checks out the named branch, creating it at the
// current position when it does not exist yet.
func (g *GitService) CreateDocumentationBranch(name string) error {
	if g.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	w, err := g.repo.Worktree()
	if err != nil {
		return err
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	if _, err := g.repo.Reference(branchRef, true); err == nil {
		log.Printf("branch %s already exists, checking out", name)
		return w.Checkout(&git.CheckoutOptions{Branch: branchRef})
	}

	log.Printf("creating branch %s", name)
	return w.Checkout(&git.CheckoutOptions{Branch: branchRef, Create: true})
}

// CommitAndPush stages everything, commits with the given message, and
// pushes the branch to origin. Returns false without error when the
// worktree turned out to be clean.
func (g *GitService) CommitAndPush(message, branchName string) (bool, error) {
	if g.repo == nil {
		return false, fmt.Errorf("repository not initialized")
	}
	w, err := g.repo.Worktree()
	if err != nil {
		return false, err
	}

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return false, fmt.Errorf("failed to stage changes: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree status: %w", err)
	}
	if status.IsClean() {
		log.Printf("no changes to commit")
		return false, nil
	}

	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.authorName,
			Email: g.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	log.Printf("committed changes on %s", branchName)

	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branchName, branchName))
	err = g.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{refSpec},
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return false, fmt.Errorf("failed to push %s: %w", branchName, err)
	}
	log.Printf("pushed branch %s to origin", branchName)
	return true, nil
}
