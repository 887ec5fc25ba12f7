// Package report discovers and parses structured test-result artifacts and
// renders the gate's failure output.
//
// Build tools that emit no artifacts (a pure compile run) simply produce an
// empty report; that is not an error. Malformed artifacts degrade to an
// "unable to parse results" notice instead of failing the gate.
package report

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/yaklabco/gatehouse/internal/log"
)

// Outcome is the parsed result of a single test.
type Outcome int

// Test outcomes.
const (
	OutcomePassed Outcome = iota
	OutcomeFailed
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}

// TestOutcome is one named test result parsed from an artifact.
type TestOutcome struct {
	Name    string
	Outcome Outcome
}

// ParseError records an artifact that could not be parsed. The gate reports
// it and moves on.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Report holds the failed outcomes collected from all artifacts found for one
// gate evaluation.
type Report struct {
	// Failed lists failed tests in artifact order, names verbatim.
	Failed []TestOutcome

	// ParseErrors lists artifacts that could not be parsed.
	ParseErrors []*ParseError
}

// Collect searches dir recursively for result artifacts matching the
// file-name pattern and parses them, newest first. A missing directory or an
// empty match set yields an empty report.
func Collect(dir, pattern string) Report {
	var rep Report

	g, err := glob.Compile(pattern)
	if err != nil {
		slog.Debug("invalid artifact pattern",
			slog.String(log.Pattern, pattern),
			slog.Any(log.Error, err))
		return rep
	}

	paths := findArtifacts(dir, g)
	slog.Debug("artifact search completed",
		slog.String(log.Dir, dir),
		slog.String(log.Pattern, pattern),
		slog.Int(log.Count, len(paths)))

	for _, path := range paths {
		outcomes, err := parseFile(path)
		if err != nil {
			rep.ParseErrors = append(rep.ParseErrors, &ParseError{Path: path, Err: err})
			continue
		}
		slog.Debug("artifact parsed",
			slog.String(log.Artifact, path),
			slog.Int(log.Count, len(outcomes)))
		for _, outcome := range outcomes {
			if outcome.Outcome == OutcomeFailed {
				rep.Failed = append(rep.Failed, outcome)
			}
		}
	}
	return rep
}

// findArtifacts walks dir and returns matching files, newest first.
func findArtifacts(dir string, g glob.Glob) []string {
	type artifact struct {
		path    string
		modTime int64
	}
	var found []artifact

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
		}
		if d.IsDir() || !g.Match(d.Name()) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil //nolint:nilerr // a vanished file is not fatal
		}
		found = append(found, artifact{path: path, modTime: info.ModTime().UnixNano()})
		return nil
	})

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].modTime > found[j].modTime
	})

	paths := make([]string, len(found))
	for i, a := range found {
		paths[i] = a.path
	}
	return paths
}

// parseFile parses one artifact, selecting the parser from the document's
// root element.
func parseFile(path string) ([]TestOutcome, error) {
	data, err := os.ReadFile(path) //nolint:gosec // artifact paths come from the repository tree
	if err != nil {
		return nil, err
	}

	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}

	switch root {
	case "TestRun":
		return parseTRX(data)
	case "testsuites", "testsuite":
		return parseJUnit(data)
	default:
		return nil, fmt.Errorf("unrecognized result format %q", root)
	}
}

// rootElement returns the local name of the document's first start element.
func rootElement(data []byte) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}
