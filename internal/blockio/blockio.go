// Package blockio scans line-oriented parameter and label files for named
// START_LIST/END_LIST delimited blocks.
//
// This is a best-effort parser that mirrors the permissive behavior of the
// acquisition software's own file layout: block delimiters are not validated,
// nesting is not supported, and a block whose END_LIST marker never appears
// silently collects every matching line up to end of file. Callers must not
// rely on truncation or on any diagnostics for malformed delimiters.
package blockio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Entry is one non-blank line collected from a block. Lines containing tab
// separators are additionally split into Fields; Fields is nil otherwise.
type Entry struct {
	Text   string
	Fields []string
}

// Values returns the entry as a field slice: the tab-split fields when
// present, otherwise the whole line as a single field.
func (e Entry) Values() []string {
	if e.Fields != nil {
		return e.Fields
	}
	return []string{e.Text}
}

// BlockSet maps each requested block pattern to the ordered entries found
// strictly between its START_LIST and END_LIST markers. A BlockSet is built
// once per file scan and not mutated afterwards.
type BlockSet map[string][]Entry

// Strings returns the plain-text lines of a block, one string per entry.
func (bs BlockSet) Strings(pattern string) []string {
	entries := bs[pattern]
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

// Rows returns the entries of a block as field slices.
func (bs BlockSet) Rows(pattern string) [][]string {
	entries := bs[pattern]
	out := make([][]string, len(entries))
	for i, e := range entries {
		out[i] = e.Values()
	}
	return out
}

// tracker holds the compiled markers and open/closed state for one pattern.
// Each pattern tracks its state independently, so multiple blocks may be
// open at the same time.
type tracker struct {
	start   *regexp.Regexp
	end     *regexp.Regexp
	open    bool
	entries []Entry
}

// Parse scans r for the given block patterns and collects their contents.
//
// Each pattern is matched against the start of a line, so it may be a
// literal block name or a regular expression prefix: pattern + " START_LIST"
// opens the block and pattern + " END_LIST" closes it. Marker lines
// themselves are never collected. Blank lines inside a block are skipped;
// all other lines are stripped of their terminator and collected in order,
// tab-split into fields where applicable.
//
// A second START_LIST for an already-open pattern simply continues
// accumulation; there is no reset and no nesting.
func Parse(r io.Reader, patterns []string) (BlockSet, error) {
	trackers := make([]*tracker, 0, len(patterns))
	for _, pattern := range patterns {
		start, err := regexp.Compile("^" + pattern + " START_LIST")
		if err != nil {
			return nil, fmt.Errorf("compile block pattern %q: %w", pattern, err)
		}
		end, err := regexp.Compile("^" + pattern + " END_LIST")
		if err != nil {
			return nil, fmt.Errorf("compile block pattern %q: %w", pattern, err)
		}
		trackers = append(trackers, &tracker{start: start, end: end})
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		for _, t := range trackers {
			// END is checked before collecting so the marker line itself
			// is never saved; START is checked after for the same reason.
			if t.end.MatchString(line) {
				t.open = false
			}
			if t.open && line != "" {
				entry := Entry{Text: line}
				if strings.Contains(line, "\t") {
					entry.Fields = strings.Split(line, "\t")
				}
				t.entries = append(t.entries, entry)
			}
			if t.start.MatchString(line) {
				t.open = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan blocks: %w", err)
	}

	blocks := make(BlockSet, len(patterns))
	for i, pattern := range patterns {
		blocks[pattern] = trackers[i].entries
	}
	return blocks, nil
}

// ParseFile opens path and scans it with Parse. The file is held open only
// for the duration of the scan.
func ParseFile(path string, patterns []string) (BlockSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open block file: %w", err)
	}
	defer f.Close()

	return Parse(f, patterns)
}
