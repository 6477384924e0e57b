package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"annot/internal/diag"
	"annot/internal/source"
)

// Pretty renders the bag in a human-readable form, one block per
// diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  <source line>
//	  ^~~~
//
// The caller is expected to have sorted the bag when merging files.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writePretty(w, d, fs, opts)
	}
}

func writePretty(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	// I/O failures carry an empty span that may not point at a real file.
	if int(d.Primary.File) >= fs.Len() {
		sev := d.Severity.String()
		if opts.Color {
			sev = severityColor(d.Severity).Sprint(sev)
		}
		fmt.Fprintf(w, "%s %s: %s\n", sev, d.Code.String(), d.Message)
		return
	}
	file := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	path := displayPath(file.Path, fs, opts.PathMode)

	sev := d.Severity.String()
	code := d.Code.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = color.New(color.Bold).Sprint(code)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, d.Message)

	writeContext(w, file, fs, d.Primary, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			noteFile := fs.Get(note.Span.File)
			noteStart, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "%s:%d:%d: note: %s\n",
				displayPath(noteFile.Path, fs, opts.PathMode), noteStart.Line, noteStart.Col, note.Msg)
			writeContext(w, noteFile, fs, note.Span, opts)
		}
	}
}

// writeContext prints the source line the span starts on, then an
// underline. Display columns come from runewidth over the NFC-normalized
// prefix, so tabs aside, wide runes line up.
func writeContext(w io.Writer, file *source.File, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	if span.Empty() && span.Start == 0 {
		return
	}
	start, end := fs.Resolve(span)
	line := file.GetLine(start.Line)
	if line == "" && span.Len() == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	prefixLen := int(start.Col) - 1
	if prefixLen > len(line) {
		prefixLen = len(line)
	}
	pad := displayWidth(line[:prefixLen])

	spanWidth := 1
	if end.Line == start.Line && end.Col > start.Col {
		to := int(end.Col) - 1
		if to > len(line) {
			to = len(line)
		}
		if to > prefixLen {
			spanWidth = displayWidth(line[prefixLen:to])
		}
	}
	underline := "^" + strings.Repeat("~", max(spanWidth-1, 0))
	if opts.Color {
		underline = color.New(color.FgHiRed, color.Bold).Sprint(underline)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), underline)
}

func displayWidth(s string) int {
	return runewidth.StringWidth(norm.NFC.String(s))
}

func displayPath(path string, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		if rel, err := filepath.Rel(fs.BaseDir(), path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	default:
		return path
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
