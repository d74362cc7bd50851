package kickstart

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cmadamsgit/ks-install/src/config"
)

// Directive tags form a closed set. A #NOTAG: line is the
// boolean-false override for TAG. Anything else in directive position
// is a fatal error: directives are configuration, not metadata, so an
// unrecognized one must never be silently dropped.
var validTags = map[string]bool{
	"CPU":   true,
	"DISK":  true,
	"DISK2": true,
	"ISO":   true,
	"OS":    true,
	"RAM":   true,
	"SSH":   true,
	"TPM":   true,
	"UEFI":  true,
}

// directiveRe matches #TAG:value override lines. Tags are all-caps,
// which keeps ordinary comments and the lower-case #include: form out
// of directive territory.
var directiveRe = regexp.MustCompile(`^#([A-Z][A-Z0-9]*):\s*(.*?)\s*$`)

// ExtractDirectives removes every directive line from the document
// and returns the stripped lines plus the override tier, keyed by
// lower-cased tag. The last directive for a tag wins. Running it
// again on its own output yields an empty tier and unchanged lines.
func ExtractDirectives(lines []string) ([]string, config.Tier, error) {
	out := make([]string, 0, len(lines))
	overrides := config.Tier{}

	for _, line := range lines {
		m := directiveRe.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if m == nil {
			out = append(out, line)
			continue
		}
		tag, value := m[1], m[2]

		switch {
		case validTags[tag]:
			overrides[config.Key(strings.ToLower(tag))] = value
		case strings.HasPrefix(tag, "NO") && validTags[tag[2:]]:
			overrides[config.Key(strings.ToLower(tag[2:]))] = "0"
		default:
			return nil, nil, fmt.Errorf("kickstart: unknown directive #%s:", tag)
		}
	}
	return out, overrides, nil
}
