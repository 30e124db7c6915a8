// Package release reads Keep a Changelog formatted release notes.
package release

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Unreleased is the heading of the pending changes section.
const Unreleased = "Unreleased"

// Release is one "## [version] - date" section.
type Release struct {
	Version string
	Date    string
	Notes   string
}

// Changelog is a parsed changelog document.
type Changelog struct {
	Releases []Release
	Links    map[string]string
}

// Find returns the release for version, with or without a "v" prefix.
func (c *Changelog) Find(version string) (Release, bool) {
	version = strings.TrimPrefix(version, "v")
	for _, r := range c.Releases {
		if strings.TrimPrefix(r.Version, "v") == version {
			return r, true
		}
	}
	return Release{}, false
}

// Latest returns the newest dated release.
func (c *Changelog) Latest() (Release, bool) {
	for _, r := range c.Releases {
		if !strings.EqualFold(r.Version, Unreleased) {
			return r, true
		}
	}
	return Release{}, false
}

// Parse splits source into releases at every level two heading.
func Parse(source []byte) (*Changelog, error) {
	pctx := parser.NewContext()
	doc := goldmark.New().Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	cl := &Changelog{Links: make(map[string]string)}
	for _, ref := range pctx.References() {
		cl.Links[string(ref.Label())] = string(ref.Destination())
	}

	type section struct {
		version   string
		date      string
		start     int
		bodyStart int
	}
	var sections []section

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok || h.Level != 2 {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		version, date := splitHeading(headingText(h, source))
		sections = append(sections, section{
			version:   version,
			date:      date,
			start:     lineStart(source, lines.At(0).Start),
			bodyStart: lines.At(lines.Len() - 1).Stop,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	for i, s := range sections {
		end := len(source)
		if i+1 < len(sections) {
			end = sections[i+1].start
		}
		var notes string
		if s.bodyStart < end {
			notes = stripLinkDefinitions(string(source[s.bodyStart:end]))
		}
		cl.Releases = append(cl.Releases, Release{Version: s.version, Date: s.date, Notes: notes})
	}
	return cl, nil
}

// lineStart returns the offset of the line containing pos. Heading
// segments begin after the "## " marker.
func lineStart(source []byte, pos int) int {
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

func headingText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		case *ast.Link:
			for lc := c.FirstChild(); lc != nil; lc = lc.NextSibling() {
				if t, ok := lc.(*ast.Text); ok {
					buf.Write(t.Segment.Value(source))
				}
			}
		}
	}
	return buf.String()
}

// splitHeading handles "[1.2.0] - 2024-05-01", "1.2.0 - 2024-05-01" and
// "[Unreleased]".
func splitHeading(heading string) (version, date string) {
	heading = strings.TrimPrefix(strings.TrimSpace(heading), "[")
	if idx := strings.Index(heading, "]"); idx != -1 {
		rest := strings.TrimSpace(heading[idx+1:])
		return heading[:idx], strings.TrimSpace(strings.TrimPrefix(rest, "-"))
	}
	if idx := strings.Index(heading, " - "); idx != -1 {
		return strings.TrimSpace(heading[:idx]), strings.TrimSpace(heading[idx+3:])
	}
	return heading, ""
}

var linkDefinition = regexp.MustCompile(`^\[[^\]]+\]:\s+\S+\s*$`)

func stripLinkDefinitions(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if !linkDefinition.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var (
	semver      = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	isoDate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	changeTypes = map[string]bool{
		"Added": true, "Changed": true, "Deprecated": true,
		"Removed": true, "Fixed": true, "Security": true,
	}
)

// Validate reports every deviation from Keep a Changelog conventions.
func Validate(source []byte) []error {
	cl, err := Parse(source)
	if err != nil {
		return []error{err}
	}

	var problems []error
	hasTitle := false
	for i, line := range strings.Split(string(source), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "# "):
			hasTitle = true
		case strings.HasPrefix(line, "### "):
			if kind := strings.TrimPrefix(line, "### "); !changeTypes[kind] {
				problems = append(problems, fmt.Errorf("line %d: invalid change type %q", i+1, kind))
			}
		}
	}
	if !hasTitle {
		problems = append(problems, fmt.Errorf("missing title"))
	}

	hasUnreleased := false
	for _, r := range cl.Releases {
		if strings.EqualFold(r.Version, Unreleased) {
			hasUnreleased = true
			continue
		}
		if !semver.MatchString(r.Version) {
			problems = append(problems, fmt.Errorf("version %q is not X.Y.Z", r.Version))
		}
		if !isoDate.MatchString(r.Date) {
			problems = append(problems, fmt.Errorf("version %q has no YYYY-MM-DD date", r.Version))
		}
		if _, ok := cl.Links[r.Version]; !ok {
			problems = append(problems, fmt.Errorf("missing link definition for [%s]", r.Version))
		}
	}
	if !hasUnreleased {
		problems = append(problems, fmt.Errorf("missing [%s] section", Unreleased))
	}
	return problems
}
