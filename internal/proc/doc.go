// Package proc runs external commands and captures their output.
//
// A single primitive, Execute, spawns a child process, writes an optional
// input payload to its stdin, drains stdout and stderr concurrently and
// decides success from the exit status:
//
//	out, err := proc.Execute(ctx, proc.Options{
//	    Command: proc.NewCommand("git", "tag"),
//	    Dir:     repoDir,
//	})
//
// On success the raw stdout bytes are returned. On failure the error is a
// *ProcessError. For a child that exited non-zero its message is exactly
// the decoded stderr text; stdout is discarded.
//
// # Concurrency
//
// Writing stdin, draining stdout and draining stderr all run concurrently,
// so a child that produces more than a pipe buffer of output before
// consuming its input cannot deadlock the parent. The exit status is
// collected once both drains finish; the stdin writer is joined last.
//
// # Convenience
//
//	text, err := proc.Text(ctx, opts)   // stdout decoded as UTF-8
//	ok := proc.Succeeds(ctx, opts)      // failure of any kind becomes false
//
// Succeeds is the only function in this package that converts a failure
// into a non-error value.
//
// # Cancellation
//
// No timeout applies unless Options.Timeout is set or ctx is canceled; the
// child is then killed and the error has Kind KindCanceled.
package proc
