// Package report renders the end-of-batch summary for the terminal.
package report
