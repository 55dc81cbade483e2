// Package report renders login attempts for people and scripts.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text summary printed at the end of a run
//   - MarkdownWriter: troubleshooting report written by --report
//   - JSONWriter: structured output for wrappers and status bars
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Each writer also
// renders the history kept by the database package.
package report
