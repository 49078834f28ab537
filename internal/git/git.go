// Package git provides Git operations via exec for the piperun CLI.
package git

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gorewood/piperun/internal/chain"
	"github.com/gorewood/piperun/internal/proc"
)

// DefaultBinary is the git executable used when none is configured.
const DefaultBinary = "git"

// Repo runs git commands in a fixed working directory.
type Repo struct {
	dir    string
	binary string
	runner proc.Runner
}

// Option configures a Repo.
type Option func(*Repo)

// WithBinary sets the git executable name or path.
func WithBinary(binary string) Option {
	return func(r *Repo) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithRunner sets the runner used for every command. Nil means proc.Default.
func WithRunner(runner proc.Runner) Option {
	return func(r *Repo) {
		r.runner = runner
	}
}

// Open returns a Repo rooted at dir. An empty dir means the current
// directory. Open does not check that dir is a repository.
func Open(dir string, opts ...Option) *Repo {
	r := &Repo{dir: dir, binary: DefaultBinary}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the directory commands run in ("" for the current one).
func (r *Repo) Dir() string {
	return r.dir
}

// Command returns an unexecuted chain for `git <args...>` in the repo.
// Use it for commands that have no dedicated method.
func (r *Repo) Command(args ...any) chain.Chain[[]byte] {
	tokens := append([]any{r.binary}, args...)
	return chain.Cmd(tokens...).WithDir(r.dir).WithRunner(r.runner)
}

// Run executes `git <args...>` and returns stdout decoded as text.
// Failures are *proc.ProcessError values carrying git's stderr.
func (r *Repo) Run(ctx context.Context, args ...any) (string, error) {
	return chain.Text(r.Command(args...)).Run(ctx)
}

// succeeds runs a boolean chain. Its only possible error is an empty
// command, which Open rules out.
func succeeds(ctx context.Context, c chain.Chain[bool]) bool {
	ok, err := c.Run(ctx)
	return err == nil && ok
}

// IsWorkTree reports whether the directory is inside a git work tree.
func (r *Repo) IsWorkTree(ctx context.Context) bool {
	return succeeds(ctx, chain.Success(r.Command("rev-parse", "--is-inside-work-tree")))
}

// IsWorkTreeRoot reports whether the directory is the top of a work tree,
// i.e. it is inside one and holds the .git entry itself.
func (r *Repo) IsWorkTreeRoot(ctx context.Context) bool {
	hasGitDir := chain.Map(func(_ context.Context, inside bool) (bool, error) {
		if !inside {
			return false, nil
		}
		_, err := os.Stat(filepath.Join(r.dir, ".git"))
		return err == nil, nil
	})
	return succeeds(ctx, hasGitDir(chain.Success(r.Command("rev-parse", "--is-inside-work-tree"))))
}

// RepoRoot returns the root directory of the repository.
func (r *Repo) RepoRoot(ctx context.Context) (string, error) {
	return chain.Pipe(chain.Text, chain.Trim)(r.Command("rev-parse", "--show-toplevel")).Run(ctx)
}

// HEAD returns the full SHA of the current HEAD commit.
// Returns an error if no commits exist.
func (r *Repo) HEAD(ctx context.Context) (string, error) {
	return chain.Pipe(chain.Text, chain.Trim)(r.Command("rev-parse", "HEAD")).Run(ctx)
}

// SHAExists reports whether sha resolves to a known git object.
func (r *Repo) SHAExists(ctx context.Context, sha string) bool {
	if sha == "" {
		return false
	}
	return succeeds(ctx, chain.Success(r.Command("cat-file", "-t", sha)))
}
