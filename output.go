package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// outputWriter handles formatted output (text or JSON)
type outputWriter struct {
	json    bool
	noColor bool
	verbose bool
	writer  io.Writer
}

func newOutputWriter(useJSON, noColor, verbose bool) *outputWriter {
	return &outputWriter{
		json:    useJSON,
		noColor: noColor,
		verbose: verbose,
		writer:  os.Stdout,
	}
}

// writeJSON outputs data as JSON
func (o *outputWriter) writeJSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// writeTable outputs tabular data
func (o *outputWriter) writeTable(headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(o.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}

// writeMessage outputs a simple message
func (o *outputWriter) writeMessage(msg string) {
	fmt.Fprintln(o.writer, msg)
}

// writeError outputs an error message to stderr
func (o *outputWriter) writeError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// writeVerbose outputs a verbose message to stderr if verbose mode is enabled
func (o *outputWriter) writeVerbose(format string, args ...interface{}) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, "VERBOSE: "+format+"\n", args...)
	}
}

// colorize wraps s in the given color unless colors are disabled.
func (o *outputWriter) colorize(c *color.Color, s string) string {
	if o.noColor {
		return s
	}
	return c.Sprint(s)
}

var (
	colorGreen  = color.New(color.FgGreen)
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
)

// truncateString truncates a string to maxLen with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
