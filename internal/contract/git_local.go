package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/statscope/statscope/internal/gitlog"
	"github.com/statscope/statscope/schema"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// ResolveCommit implements the GitClient interface.
func (c *LocalGitClient) ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// HistoryLog implements the GitClient interface. The output interleaves one
// delimiter-framed header per commit with its numstat lines, oldest first.
// Rename detection is disabled on purpose: renamed files are meant to show
// up as independent aggregate entries.
func (c *LocalGitClient) HistoryLog(ctx context.Context, repoPath string, ref string, afterCommit string) ([]byte, error) {
	args := []string{
		"log",
		"--numstat",
		"--no-renames",
		"--topo-order",
		"--reverse",
		"--pretty=format:" + gitlog.HeaderFormat,
	}
	if afterCommit != "" {
		args = append(args, afterCommit+".."+ref)
	} else {
		args = append(args, ref)
	}
	return c.Run(ctx, repoPath, args...)
}

// AuthorTimezones implements the GitClient interface.
func (c *LocalGitClient) AuthorTimezones(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	return c.Run(ctx, repoPath, "log", "--pretty=format:%aI", ref)
}

// CommitGraph implements the GitClient interface. Each commit yields a
// "commit <id> <parents...>" line followed by one author identity line.
func (c *LocalGitClient) CommitGraph(ctx context.Context, repoPath string, tips []string) ([]byte, error) {
	args := []string{"rev-list", "--parents", "--format=%an <%ae>"}
	args = append(args, tips...)
	return c.Run(ctx, repoPath, args...)
}

// ShortLog implements the GitClient interface.
func (c *LocalGitClient) ShortLog(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	return c.Run(ctx, repoPath, "shortlog", "-sne", ref)
}

// ListTags implements the GitClient interface. Annotated tags are
// dereferenced so the target is always a commit id.
func (c *LocalGitClient) ListTags(ctx context.Context, repoPath string) ([]schema.Tag, error) {
	format := "%(refname:short)" + gitlog.FieldSep + "%(creatordate:iso-strict)" + gitlog.FieldSep + "%(objectname)" + gitlog.FieldSep + "%(*objectname)"
	out, err := c.Run(ctx, repoPath, "for-each-ref", "refs/tags", "--format="+format)
	if err != nil {
		return nil, err
	}

	var tags []schema.Tag
	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\n")
		if line == "" {
			continue
		}
		parts := strings.Split(line, gitlog.FieldSep)
		if len(parts) != 4 {
			continue
		}

		tag := schema.Tag{Name: parts[0], Target: parts[2]}
		if parts[3] != "" {
			// Annotated tag; use the dereferenced commit.
			tag.Target = parts[3]
		}
		if t, err := time.Parse(time.RFC3339, parts[1]); err == nil {
			tag.Date = &t
		}
		tags = append(tags, tag)
	}

	sortTags(tags)
	return tags, nil
}

// sortTags orders tags by creation date, breaking ties (and missing dates)
// lexicographically by name. Tags without a date sort first.
func sortTags(tags []schema.Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		di, dj := tags[i].Date, tags[j].Date
		switch {
		case di == nil && dj == nil:
			return tags[i].Name < tags[j].Name
		case di == nil:
			return true
		case dj == nil:
			return false
		case di.Equal(*dj):
			return tags[i].Name < tags[j].Name
		default:
			return di.Before(*dj)
		}
	})
}

// DiffNumstat implements the GitClient interface.
func (c *LocalGitClient) DiffNumstat(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--numstat", "--no-renames", baseRef+".."+targetRef)
}

// ListTree implements the GitClient interface.
func (c *LocalGitClient) ListTree(ctx context.Context, repoPath string, ref string) ([]byte, error) {
	return c.Run(ctx, repoPath, "ls-tree", "-r", "-l", ref)
}

// CatFileBatch implements the GitClient interface. Object ids are written
// to the child's stdin one per line; git answers each with a header line
// and the raw object content.
func (c *LocalGitClient) CatFileBatch(ctx context.Context, repoPath string, ids []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "cat-file", "--batch")
	cmd.Stdin = strings.NewReader(strings.Join(ids, "\n") + "\n")
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git cat-file --batch failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git cat-file --batch failed: %w", err)
	}
	return out, nil
}

// ReadBlob implements the GitClient interface.
func (c *LocalGitClient) ReadBlob(ctx context.Context, repoPath string, id string) ([]byte, error) {
	return c.Run(ctx, repoPath, "cat-file", "-p", id)
}
