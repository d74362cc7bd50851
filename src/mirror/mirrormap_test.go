package mirror

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirrors.map")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	return path
}

func TestMapExactMatch(t *testing.T) {
	m := &Map{Path: writeMap(t, `
# local mirrors
https://mirrors.example.com/metalink?repo=fedora-42&arch=x86_64 http://local.example.com/fedora/42/
`)}

	mapped, ok, err := m.Lookup("https://mirrors.example.com/metalink?repo=fedora-42&arch=x86_64")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || mapped != "http://local.example.com/fedora/42/" {
		t.Errorf("Lookup = %q, %v", mapped, ok)
	}
}

func TestMapGeneralizedMatch(t *testing.T) {
	m := &Map{Path: writeMap(t,
		"https://mirrors.example.com/metalink?repo=fedora-$VERSION&arch=x86_64 http://local.example.com/fedora/$VERSION/\n")}

	mapped, ok, err := m.Lookup("https://mirrors.example.com/metalink?repo=fedora-43&arch=x86_64")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || mapped != "http://local.example.com/fedora/43/" {
		t.Errorf("Lookup = %q, %v; want version instantiated", mapped, ok)
	}

	// The instantiated result is cached under the exact key.
	if _, cached := m.entries["https://mirrors.example.com/metalink?repo=fedora-43&arch=x86_64"]; !cached {
		t.Error("generalized hit was not cached under the exact key")
	}
}

// When both an exact and a generalized entry exist for the same
// input, exact wins.
func TestMapExactBeatsGeneralized(t *testing.T) {
	m := &Map{Path: writeMap(t, `
https://mirrors.example.com/repo/42 http://pinned.example.com/42/
https://mirrors.example.com/repo/$VERSION http://generic.example.com/$VERSION/
`)}

	mapped, ok, err := m.Lookup("https://mirrors.example.com/repo/42")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || mapped != "http://pinned.example.com/42/" {
		t.Errorf("Lookup = %q, want the exact entry", mapped)
	}

	mapped, ok, err = m.Lookup("https://mirrors.example.com/repo/41")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok || mapped != "http://generic.example.com/41/" {
		t.Errorf("Lookup = %q, want the generalized entry", mapped)
	}
}

func TestMapArchNotGeneralized(t *testing.T) {
	m := &Map{Path: writeMap(t,
		"https://mirrors.example.com/repo/$VERSION http://generic.example.com/$VERSION/\n")}

	// x86_64 carries digits but is not a version component.
	if _, ok, _ := m.Lookup("https://other.example.com/x86_64"); ok {
		t.Error("architecture token matched as a version component")
	}
}

func TestMapMissingFile(t *testing.T) {
	m := &Map{Path: filepath.Join(t.TempDir(), "nope.map")}
	if _, ok, err := m.Lookup("https://mirrors.example.com/list"); err != nil || ok {
		t.Errorf("missing map file should skip mapping, got ok=%v err=%v", ok, err)
	}
}

func TestMapMalformedLine(t *testing.T) {
	m := &Map{Path: writeMap(t, "https://one.example.com/\n")}
	if _, _, err := m.Lookup("https://one.example.com/"); err == nil {
		t.Error("a map line without two URLs should fail")
	}
}

func TestGeneralize(t *testing.T) {
	cases := []struct {
		in, pattern, version string
	}{
		{"https://m.example.com/fedora/42/os", "https://m.example.com/fedora/$VERSION/os", "42"},
		{"https://m.example.com/metalink?repo=fedora-42&arch=x86_64", "https://m.example.com/metalink?repo=fedora-$VERSION&arch=x86_64", "42"},
		{"https://m.example.com/fedora/42", "https://m.example.com/fedora/$VERSION", "42"},
		{"https://m.example.com/no/version", "", ""},
	}
	for _, tc := range cases {
		pattern, version := generalize(tc.in)
		if pattern != tc.pattern || version != tc.version {
			t.Errorf("generalize(%q) = %q, %q; want %q, %q", tc.in, pattern, version, tc.pattern, tc.version)
		}
	}
}
