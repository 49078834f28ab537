// Package git provides Git operations via exec for the piperun CLI.
//
// This package wraps git commands by shelling out to the git executable
// through the chain and proc packages. Each operation builds a lazy chain
// prefixed with the git binary and its subcommand, then runs it once.
//
// # Opening a Repository
//
// All operations hang off a Repo bound to a working directory:
//
//	repo := git.Open(dir)                      // "" means the current directory
//	repo := git.Open(dir, git.WithBinary(bin)) // custom git executable
//
// # Boolean Operations
//
// Commands whose only interesting outcome is success report a bool and
// never fail; any failure, including a missing git binary, is false:
//
//	repo.Init(ctx)
//	repo.IsWorkTree(ctx)
//	repo.AddTag(ctx, "v1.2.0", git.TagOptions{Message: "release"})
//	repo.Push(ctx, "origin", "v1.2.0")
//	repo.AddSubmodule(ctx, url, "vendor/lib", git.SubmoduleOptions{Force: true})
//
// # Queries
//
// Text queries return trimmed output; Tags returns one entry per non-empty
// line in git's order:
//
//	branch, err := repo.CurrentBranch(ctx)
//	tag, err := repo.CurrentTag(ctx)
//	tags, err := repo.Tags(ctx)
//
// # Error Handling
//
// Query errors are returned unchanged from the proc package. A non-zero git
// exit yields a *proc.ProcessError whose message is git's stderr:
//
//	if _, err := repo.CurrentTag(ctx); err != nil {
//	    procErr, _ := proc.AsProcessError(err)
//	    fmt.Println(procErr.Stderr) // "fatal: No names found, cannot describe anything.\n"
//	}
package git
