// Package logtail reads the tail of the ffscope log file.
//
// The TUI owns the terminal, so logs go to a file (log_file in config). The
// logs command reads it back with Tail, optionally narrowed to a minimum
// level or a component, and highlights levels with ColorizeLine.
//
// Tail keeps a ring buffer of the last N matching lines, so memory stays
// O(N) regardless of file size. A missing file yields no lines.
package logtail
