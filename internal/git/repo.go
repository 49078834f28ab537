package git

import (
	"context"
	"strings"

	"github.com/gorewood/piperun/internal/chain"
)

// TagOptions configures AddTag.
type TagOptions struct {
	// Message makes the tag annotated. Empty creates a lightweight tag.
	Message string
}

// SubmoduleOptions configures AddSubmodule.
type SubmoduleOptions struct {
	Force bool
}

// Init runs `git init` and reports whether it succeeded.
func (r *Repo) Init(ctx context.Context) bool {
	return succeeds(ctx, chain.Success(r.Command("init")))
}

// Status returns `git status --porcelain` output.
func (r *Repo) Status(ctx context.Context) (string, error) {
	return chain.Text(r.Command("status", "--porcelain")).Run(ctx)
}

// IsWorkTreeClean reports whether the work tree has no staged, unstaged or
// untracked changes.
func (r *Repo) IsWorkTreeClean(ctx context.Context) (bool, error) {
	clean := chain.MapSync(func(status string) bool {
		return strings.TrimSpace(status) == ""
	})
	return clean(chain.Text(r.Command("status", "--porcelain"))).Run(ctx)
}

// CurrentBranch returns the checked-out branch name, or "" when HEAD is
// detached.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	return chain.Pipe(chain.Text, chain.Trim)(r.Command("branch", "--show-current")).Run(ctx)
}

// CurrentTag returns `git describe` for HEAD.
func (r *Repo) CurrentTag(ctx context.Context) (string, error) {
	return chain.Pipe(chain.Text, chain.Trim)(r.Command("describe")).Run(ctx)
}

// Tags lists tag names in the order git reports them.
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	return chain.Pipe(chain.Text, chain.Lines)(r.Command("tag")).Run(ctx)
}

// AddTag creates a tag on HEAD and reports whether it succeeded.
func (r *Repo) AddTag(ctx context.Context, name string, opts TagOptions) bool {
	args := []any{"tag"}
	if opts.Message != "" {
		args = append(args, "-a", "-m", opts.Message)
	}
	args = append(args, name)
	return succeeds(ctx, chain.Success(r.Command(args...)))
}

// Push pushes refspec to repository and reports whether it succeeded.
func (r *Repo) Push(ctx context.Context, repository, refspec string) bool {
	return succeeds(ctx, chain.Success(r.Command("push", repository, refspec)))
}

// AddSubmodule runs `git submodule add` and reports whether it succeeded.
func (r *Repo) AddSubmodule(ctx context.Context, url, path string, opts SubmoduleOptions) bool {
	args := []any{"submodule", "add"}
	if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, url, path)
	return succeeds(ctx, chain.Success(r.Command(args...)))
}

// HasUncommittedChanges returns true if the working tree has staged or
// unstaged changes. Errors count as no changes.
func (r *Repo) HasUncommittedChanges(ctx context.Context) bool {
	clean, err := r.IsWorkTreeClean(ctx)
	return err == nil && !clean
}
