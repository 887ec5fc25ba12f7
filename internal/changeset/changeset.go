// Package changeset queries Git for the set of files affected by a pending
// lifecycle event and classifies each entry by its diff status.
//
// The queries use `git diff --name-status -z` so the output is decoded
// structurally from NUL-separated records rather than pattern-matched from
// display text.
package changeset

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/yaklabco/gatehouse/internal/log"
)

// Status classifies how a path differs in the pending operation.
type Status byte

// Diff status codes, mirroring Git's --name-status letters.
const (
	StatusUnknown     Status = 0
	StatusModified    Status = 'M'
	StatusAdded       Status = 'A'
	StatusDeleted     Status = 'D'
	StatusRenamed     Status = 'R'
	StatusCopied      Status = 'C'
	StatusTypeChanged Status = 'T'
	StatusUnmerged    Status = 'U'
)

func (s Status) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	case StatusTypeChanged:
		return "type-changed"
	case StatusUnmerged:
		return "unmerged"
	case StatusUnknown:
		return "unknown"
	}
	return "unknown"
}

// Entry is one path affected by the pending lifecycle event.
type Entry struct {
	// Path is the repository-relative path. For renames and copies this is
	// the destination path, since that is the file the operation will ship.
	Path string

	// Status is the decoded diff status.
	Status Status
}

// QueryError indicates the change set could not be determined, e.g. because
// the directory is not a repository or the branch has no upstream. Callers
// treat it as an empty change set rather than aborting, so pushes of new
// branches are not blocked.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("changeset: querying %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Staged returns the entries staged for the next commit, in Git's output
// order. dir is the directory to run the query from.
func Staged(ctx context.Context, dir string) ([]Entry, error) {
	return query(ctx, dir, "staged", "diff", "--cached", "--name-status", "-z")
}

// Outgoing returns the entries differing between the local branch tip and its
// upstream counterpart, i.e. what a push would publish.
func Outgoing(ctx context.Context, dir string) ([]Entry, error) {
	return query(ctx, dir, "outgoing", "diff", "--name-status", "-z", "@{upstream}...HEAD")
}

// ForHook returns the change set relevant to the given lifecycle event:
// outgoing commits for pre-push, the staged index for everything else.
func ForHook(ctx context.Context, hookName, dir string) ([]Entry, error) {
	if hookName == "pre-push" {
		return Outgoing(ctx, dir)
	}
	return Staged(ctx, dir)
}

func query(ctx context.Context, dir, op string, args ...string) ([]Entry, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		slog.Debug("changeset query failed",
			slog.String("op", op),
			slog.String(log.Dir, dir),
			slog.Any(log.Error, err))
		return nil, &QueryError{Op: op, Err: err}
	}

	entries := parseNameStatus(string(out))
	slog.Debug("changeset query completed",
		slog.String("op", op),
		slog.Int(log.Count, len(entries)))
	return entries, nil
}

// parseNameStatus decodes `git diff --name-status -z` output. Records are
// NUL-separated: a status field followed by one path, or two paths for
// renames and copies (the status carries a similarity score, e.g. "R100").
func parseNameStatus(out string) []Entry {
	fields := strings.Split(out, "\x00")

	var entries []Entry
	for i := 0; i < len(fields); i++ {
		status := fields[i]
		if status == "" {
			continue
		}

		entry := Entry{Status: decodeStatus(status)}
		if i+1 >= len(fields) {
			break
		}
		i++
		entry.Path = fields[i]

		// Renames and copies carry source then destination.
		if (entry.Status == StatusRenamed || entry.Status == StatusCopied) && i+1 < len(fields) {
			i++
			entry.Path = fields[i]
		}

		entries = append(entries, entry)
	}
	return entries
}

func decodeStatus(field string) Status {
	switch field[0] {
	case 'M', 'A', 'D', 'R', 'C', 'T', 'U':
		return Status(field[0])
	default:
		return StatusUnknown
	}
}
