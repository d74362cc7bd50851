package mirror

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// versionPlaceholder stands in for a numeric release component in a
// mirror-map pattern, so one entry covers every release of a mirror.
const versionPlaceholder = "$VERSION"

// versionRe matches a numeric path or query component delimited by
// '/' or '-' on the left and '/', '&', or end of string on the right.
// Architecture tokens like x86_64 deliberately do not match.
var versionRe = regexp.MustCompile(`([/-])(\d+)([/&]|$)`)

// Map is the local mirror-mapping table: original URL -> replacement.
// It is loaded lazily on first lookup and cached for the rest of the
// run. Not safe for concurrent use.
type Map struct {
	Path string

	loaded  bool
	entries map[string]string
}

// Lookup returns the replacement for url, if the table has one.
// Exact matches win; otherwise the url is generalized by swapping its
// trailing numeric release component for $VERSION and the generalized
// pattern is tried, with the placeholder in the result instantiated
// from the original number. Generalized hits are cached under the
// exact key for reuse within the run.
func (m *Map) Lookup(url string) (string, bool, error) {
	if err := m.load(); err != nil {
		return "", false, err
	}

	if mapped, ok := m.entries[url]; ok {
		return mapped, true, nil
	}

	pattern, version := generalize(url)
	if version == "" {
		return "", false, nil
	}
	mapped, ok := m.entries[pattern]
	if !ok {
		return "", false, nil
	}
	mapped = strings.ReplaceAll(mapped, versionPlaceholder, version)
	m.entries[url] = mapped
	return mapped, true, nil
}

// load reads the mapping file once. A missing file leaves the table
// empty; mapping is simply skipped.
func (m *Map) load() error {
	if m.loaded {
		return nil
	}
	m.loaded = true
	m.entries = map[string]string{}

	if m.Path == "" {
		return nil
	}
	f, err := os.Open(m.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("mirror map: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("mirror map: %s:%d: want two URLs per line", m.Path, lineNum)
		}
		m.entries[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mirror map: %s: %w", m.Path, err)
	}
	return nil
}

// generalize replaces the last numeric release component of url with
// the version placeholder. Returns the pattern and the number it
// replaced, or ("", "") when the url has no such component.
func generalize(url string) (pattern, version string) {
	matches := versionRe.FindAllStringSubmatchIndex(url, -1)
	if len(matches) == 0 {
		return "", ""
	}
	m := matches[len(matches)-1]
	// m[4]:m[5] is the digit group
	version = url[m[4]:m[5]]
	pattern = url[:m[4]] + versionPlaceholder + url[m[5]:]
	return pattern, version
}
