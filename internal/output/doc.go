// Package output provides structured output handling for the piperun CLI.
//
// Every command writes through a Printer so that the same command works for
// people at a terminal and for scripts reading JSON:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, color)
//	printer.Raw(stdout)                       // program output, verbatim
//	printer.Check(ok)                         // true / {"ok": true}
//	printer.Fields(map[string]any{"branch": b})
//	printer.List("tags", tags)
//
// # Exit Codes
//
//	output.ExitSuccess       // 0
//	output.ExitUserError     // 1: bad args, bad config, tool not allowed
//	output.ExitSystemError   // 2: program missing, timeout, I/O error
//	output.ExitConflict      // 3: tag already exists
//	output.ExitCommandFailed // 4: the executed program exited non-zero
//
// FromProcessError converts execution failures into ExitError values so the
// CLI exit status tells callers whether piperun or the program failed.
package output
