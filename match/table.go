// Package match implements the document-matching heuristic: a static table of
// per-type patterns and the scoring that ranks candidate links against a
// requested document type.
package match

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/fwojciec/docscout"
	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultPatterns []byte

var defaultTable = mustParseTable(defaultPatterns)

// DefaultTable returns the built-in pattern table.
func DefaultTable() *Table {
	return defaultTable
}

// Pattern holds the matching rules for one document type.
// A Pattern is immutable once loaded.
type Pattern struct {
	label            string
	keywords         []string
	fileNamePatterns []*regexp.Regexp
	linkTextPatterns []string
	priority         int
	scoreBonus       int
}

// Label returns the document-type label the pattern belongs to.
func (p *Pattern) Label() string { return p.label }

// Priority returns the weight added once to every candidate.
func (p *Pattern) Priority() int { return p.priority }

// ScoreBonus returns the weight added when a file name pattern matches.
func (p *Pattern) ScoreBonus() int { return p.scoreBonus }

// Keywords returns the lowercase keywords searched for in the link text.
func (p *Pattern) Keywords() []string {
	return append([]string(nil), p.keywords...)
}

// LinkTextPatterns returns the lowercase phrases searched for in the link text.
func (p *Pattern) LinkTextPatterns() []string {
	return append([]string(nil), p.linkTextPatterns...)
}

// MatchesFileName reports whether any file name pattern matches name.
func (p *Pattern) MatchesFileName(name string) bool {
	for _, re := range p.fileNamePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Table maps document-type labels to patterns. A Table is safe for
// concurrent use and has no mutation methods.
type Table struct {
	patterns []*Pattern
	byLabel  map[string]*Pattern
}

// Lookup returns the pattern for an exact label.
func (t *Table) Lookup(label string) (*Pattern, bool) {
	p, ok := t.byLabel[label]
	return p, ok
}

// Labels returns the supported labels in table order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.patterns))
	for i, p := range t.patterns {
		labels[i] = p.label
	}
	return labels
}

// Len returns the number of patterns in the table.
func (t *Table) Len() int {
	return len(t.patterns)
}

type patternEntry struct {
	Label            string   `yaml:"label"`
	Keywords         []string `yaml:"keywords"`
	FileNamePatterns []string `yaml:"fileNamePatterns"`
	LinkTextPatterns []string `yaml:"linkTextPatterns"`
	Priority         int      `yaml:"priority"`
	ScoreBonus       int      `yaml:"scoreBonus"`
}

// LoadTable reads a YAML pattern table: a sequence of entries with label,
// keywords, fileNamePatterns, linkTextPatterns, priority and scoreBonus.
func LoadTable(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []patternEntry
	if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, docscout.Errorf(docscout.EINVALID, "invalid pattern table: %v", err)
	}
	if len(entries) == 0 {
		return nil, docscout.Errorf(docscout.EINVALID, "pattern table is empty")
	}

	t := &Table{byLabel: make(map[string]*Pattern, len(entries))}
	for i, e := range entries {
		p, err := compilePattern(e)
		if err != nil {
			return nil, docscout.Errorf(docscout.EINVALID, "pattern %d: %s", i, docscout.ErrorMessage(err))
		}
		if _, ok := t.byLabel[p.label]; ok {
			return nil, docscout.Errorf(docscout.EINVALID, "duplicate pattern for %q", p.label)
		}
		t.byLabel[p.label] = p
		t.patterns = append(t.patterns, p)
	}
	return t, nil
}

func compilePattern(e patternEntry) (*Pattern, error) {
	if strings.TrimSpace(e.Label) == "" {
		return nil, docscout.Errorf(docscout.EINVALID, "label required")
	}
	if e.Priority < 0 || e.ScoreBonus < 0 {
		return nil, docscout.Errorf(docscout.EINVALID, "%q: priority and scoreBonus must not be negative", e.Label)
	}

	p := &Pattern{
		label:            e.Label,
		keywords:         lowerAll(e.Keywords),
		linkTextPatterns: lowerAll(e.LinkTextPatterns),
		priority:         e.Priority,
		scoreBonus:       e.ScoreBonus,
	}
	for _, expr := range e.FileNamePatterns {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, docscout.Errorf(docscout.EINVALID, "%q: file name pattern %q: %v", e.Label, expr, err)
		}
		p.fileNamePatterns = append(p.fileNamePatterns, re)
	}
	return p, nil
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func mustParseTable(data []byte) *Table {
	t, err := LoadTable(bytes.NewReader(data))
	if err != nil {
		panic("match: embedded pattern table: " + err.Error())
	}
	return t
}
