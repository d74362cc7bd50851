// Package kickstart loads a templated kickstart document, extracts
// in-document directives, and rewrites content lines into the final
// install-ready form.
package kickstart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Fetcher retrieves remote documents. Satisfied by *fetch.Client.
type Fetcher interface {
	Bytes(ctx context.Context, url string) ([]byte, error)
}

var (
	includeRe = regexp.MustCompile(`^#include:\s*(\S.*?)\s*$`)
	remoteRe  = regexp.MustCompile(`^https?://`)
)

// Loader resolves a document and its transitive includes into one
// ordered line sequence. The base directory for relative includes is
// fixed from the first local file loaded.
type Loader struct {
	Fetcher Fetcher

	baseDir string
	visited map[string]bool
}

// Load reads the main document (local path or http(s) URL) and
// expands every #include: line recursively. Expansion iterates to a
// fixed point: each pass rescans the whole document and splices in
// include content until a pass finds no include lines left. A
// reference seen twice aborts with an include-cycle error.
func (l *Loader) Load(ctx context.Context, ref string) ([]string, error) {
	l.visited = map[string]bool{}

	lines, err := l.read(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("kickstart: load %s: %w", ref, err)
	}
	l.visited[ref] = true

	for {
		expanded, changed, err := l.expandPass(ctx, lines)
		if err != nil {
			return nil, err
		}
		if !changed {
			return expanded, nil
		}
		lines = expanded
	}
}

// expandPass replaces every include line found in one scan.
func (l *Loader) expandPass(ctx context.Context, lines []string) ([]string, bool, error) {
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		m := includeRe.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		ref := m[1]
		if l.visited[ref] {
			return nil, false, fmt.Errorf("kickstart: include cycle at %s", ref)
		}
		l.visited[ref] = true

		content, err := l.readInclude(ctx, ref)
		if err != nil {
			return nil, false, fmt.Errorf("kickstart: include %s: %w", ref, err)
		}
		out = append(out, content...)
		changed = true
	}
	return out, changed, nil
}

// read loads one document reference into lines. Local paths fix the
// include base directory on first use.
func (l *Loader) read(ctx context.Context, ref string) ([]string, error) {
	if remoteRe.MatchString(ref) {
		data, err := l.Fetcher.Bytes(ctx, ref)
		if err != nil {
			return nil, err
		}
		return splitLines(string(data)), nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, err
	}
	if l.baseDir == "" {
		l.baseDir = filepath.Dir(ref)
	}
	return splitLines(string(data)), nil
}

// readInclude resolves an included reference: remote refs are
// fetched, local refs are tried as given and then relative to the
// base directory.
func (l *Loader) readInclude(ctx context.Context, ref string) ([]string, error) {
	if remoteRe.MatchString(ref) {
		data, err := l.Fetcher.Bytes(ctx, ref)
		if err != nil {
			return nil, err
		}
		return splitLines(string(data)), nil
	}

	data, err := os.ReadFile(ref)
	if err != nil && l.baseDir != "" && !filepath.IsAbs(ref) {
		data, err = os.ReadFile(filepath.Join(l.baseDir, ref))
	}
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}

// splitLines breaks document content into lines, dropping a single
// trailing newline so expansion never grows blank tails.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
