// Package publish writes the artifacts and publishes them through a git
// commit and push.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/naka-gawa/commit-race/internal/domain"
)

// CommitMessagePrefix starts every publish commit message.
const CommitMessagePrefix = "Update commit stats: "

// ArtifactWriter writes the artifacts to the work tree.
type ArtifactWriter interface {
	Save(board domain.Leaderboard, history domain.History) error
	LeaderboardPath() string
	HistoryPath() string
}

// Options configures a GitPublisher.
type Options struct {
	RepoDir     string
	Remote      string
	Branch      string // empty pushes the checked out branch
	Push        bool
	Token       string // HTTP basic auth password when set
	AuthorName  string
	AuthorEmail string
}

// GitPublisher writes the artifacts, stages exactly those two files, commits
// and pushes. The local write is never rolled back.
type GitPublisher struct {
	writer ArtifactWriter
	opts   Options
	logger *log.Logger
	now    func() time.Time
}

// NewGitPublisher creates a GitPublisher.
func NewGitPublisher(writer ArtifactWriter, opts Options, logger *log.Logger) *GitPublisher {
	if opts.Remote == "" {
		opts.Remote = git.DefaultRemoteName
	}
	return &GitPublisher{
		writer: writer,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Publish writes and publishes both artifacts as one step.
func (p *GitPublisher) Publish(ctx context.Context, board domain.Leaderboard, history domain.History) error {
	if err := p.writer.Save(board, history); err != nil {
		return fmt.Errorf("failed to write artifacts: %w", err)
	}
	p.logger.Printf("publish: wrote %s and %s\n", p.writer.LeaderboardPath(), p.writer.HistoryPath())

	repo, err := git.PlainOpenWithOptions(p.opts.RepoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open git repository at %s: %w", p.opts.RepoDir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	var staged []string
	for _, path := range []string{p.writer.LeaderboardPath(), p.writer.HistoryPath()} {
		rel, err := relativeTo(wt.Filesystem.Root(), path)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, err)
		}
		staged = append(staged, rel)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("failed to read worktree status: %w", err)
	}
	if other := stagedOutside(status, staged); len(other) > 0 {
		return fmt.Errorf("failed to publish: index has unrelated staged changes: %s", strings.Join(other, ", "))
	}
	if !hasStagedChanges(status, staged) {
		p.logger.Println("publish: artifacts unchanged, nothing to commit.")
		return nil
	}

	now := p.now().UTC()
	hash, err := wt.Commit(CommitMessagePrefix+now.Format(time.RFC3339), &git.CommitOptions{
		Author: &object.Signature{
			Name:  p.opts.AuthorName,
			Email: p.opts.AuthorEmail,
			When:  now,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit artifacts: %w", err)
	}
	p.logger.Printf("publish: committed %s\n", hash)

	if !p.opts.Push {
		p.logger.Println("publish: push disabled, commit kept locally.")
		return nil
	}
	return p.push(ctx, repo)
}

func (p *GitPublisher) push(ctx context.Context, repo *git.Repository) error {
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	src, dst := head.Name().String(), head.Name()
	if !head.Name().IsBranch() {
		if p.opts.Branch == "" {
			return errors.New("detached HEAD: set publish.branch to choose the branch to push")
		}
		src = head.Hash().String()
	}
	if p.opts.Branch != "" {
		dst = plumbing.NewBranchReferenceName(p.opts.Branch)
	}
	pushOpts := &git.PushOptions{
		RemoteName: p.opts.Remote,
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("%s:%s", src, dst))},
	}
	if p.opts.Token != "" {
		pushOpts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: p.opts.Token}
	}

	err = repo.PushContext(ctx, pushOpts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to push to %s: %w", p.opts.Remote, err)
	}
	p.logger.Printf("publish: pushed to %s\n", p.opts.Remote)
	return nil
}

func relativeTo(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact %s is outside the repository %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}

func hasStagedChanges(status git.Status, paths []string) bool {
	for _, path := range paths {
		if s := status.File(path); s.Staging != git.Unmodified && s.Staging != git.Untracked {
			return true
		}
	}
	return false
}

// stagedOutside lists staged index entries that are not among paths.
func stagedOutside(status git.Status, paths []string) []string {
	own := make(map[string]bool, len(paths))
	for _, path := range paths {
		own[path] = true
	}
	var other []string
	for path, s := range status {
		if own[path] || s.Staging == git.Unmodified || s.Staging == git.Untracked {
			continue
		}
		other = append(other, path)
	}
	sort.Strings(other)
	return other
}
