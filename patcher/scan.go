package patcher

import (
	"os"
	"strings"

	"github.com/erraggy/cfgtools/cfgerrors"
	"github.com/erraggy/cfgtools/internal/fileutil"
)

// document is the transient line-level view of a target file used during a
// single operation. It is built by loadDocument, mutated in memory, and
// written back through the atomic-write primitive. Nothing retains it across
// operations.
type document struct {
	path  string
	lines []string

	// trailingNewline records whether the original content ended with '\n',
	// so an untouched document round-trips byte-for-byte.
	trailingNewline bool
}

// loadDocument reads path and splits it into lines without terminators.
func loadDocument(op, path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &cfgerrors.ApplyError{Op: op, Path: path, Message: "reading target file", Cause: err}
	}

	d := &document{path: path}
	content := string(data)
	if content == "" {
		d.trailingNewline = true
		return d, nil
	}

	d.trailingNewline = strings.HasSuffix(content, "\n")
	d.lines = strings.Split(content, "\n")
	if d.trailingNewline {
		d.lines = d.lines[:len(d.lines)-1]
	}
	return d, nil
}

// bytes serializes the document back to file content.
func (d *document) bytes() []byte {
	if len(d.lines) == 0 {
		return nil
	}
	content := strings.Join(d.lines, "\n")
	if d.trailingNewline {
		content += "\n"
	}
	return []byte(content)
}

// save atomically replaces the file with the document's current content.
func (d *document) save(op string) error {
	if err := fileutil.WriteFileAtomic(d.path, d.bytes()); err != nil {
		return &cfgerrors.ApplyError{Op: op, Path: d.path, Message: "rewriting target file", Cause: err}
	}
	return nil
}

// insertAt inserts newLines before index i (append when i == len(lines)).
func (d *document) insertAt(i int, newLines ...string) {
	out := make([]string, 0, len(d.lines)+len(newLines))
	out = append(out, d.lines[:i]...)
	out = append(out, newLines...)
	out = append(out, d.lines[i:]...)
	d.lines = out
}

// indexOf returns the index of the first line whose trimmed content equals
// target, or -1.
func (d *document) indexOf(target string) int {
	for i, line := range d.lines {
		if strings.TrimSpace(line) == target {
			return i
		}
	}
	return -1
}

// containsLine reports whether any line, trimmed, equals target.
func (d *document) containsLine(target string) bool {
	return d.indexOf(target) >= 0
}

// lastIndexWithPrefix returns the index of the last line whose trimmed content
// starts with prefix, or -1. This is the "group with its peers" insertion
// anchor: new members of a directive group go after the last existing member.
func (d *document) lastIndexWithPrefix(prefix string) int {
	last := -1
	for i, line := range d.lines {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			last = i
		}
	}
	return last
}

// isSectionHeader reports whether a line (after trimming) is a [section] header.
func isSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= 2 && strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
}

// isBlank reports whether a line contains only whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
