// Package sshkeys discovers local public keys for injection into the
// installed system's root account.
package sshkeys

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover returns the first line of every *.pub file under dir,
// sorted and de-duplicated. An empty dir means ~/.ssh. A missing
// directory yields no keys, not an error.
func Discover(dir string) ([]string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil
		}
		dir = filepath.Join(home, ".ssh")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	seen := map[string]bool{}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pub") {
			continue
		}
		key, err := firstLine(filepath.Join(dir, entry.Name()))
		if err != nil || key == "" {
			continue
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}
