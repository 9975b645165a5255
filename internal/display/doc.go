// Package display provides terminal output for warnings and source loading
// progress.
//
// Warnings are printed in yellow, loading progress in cyan with a green
// completion line. Every function takes an io.Writer so commands can route
// output to stdout, stderr or a test buffer.
//
//	mismatches := catalog.DeclaredMismatches(batches)
//	if len(mismatches) > 0 {
//	    display.WarnCountMismatch(mismatches).Display(os.Stderr)
//	}
package display
