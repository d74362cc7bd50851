package kickstart

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cmadamsgit/ks-install/src/config"
	"github.com/cmadamsgit/ks-install/src/mirror"
)

// Rewriter applies the content rules to a stripped line sequence,
// producing the final document and the resolved install source.
type Rewriter struct {
	Config  *config.Resolver
	URLs    *mirror.Resolver
	Network *config.NetworkSpec
	SSHKeys []string
}

// rewriteState accumulates cross-line results during one pass.
type rewriteState struct {
	pending InstallSource // last url/cdrom declaration wins
}

// rule pairs a line predicate with its transform. The table is data:
// each entry is independently testable, and the single pass applies
// at most one rule per line.
type rule struct {
	name  string
	match *regexp.Regexp
	apply func(ctx context.Context, rw *Rewriter, st *rewriteState, line string) ([]string, error)
}

var rules = []rule{
	{"url", regexp.MustCompile(`^url\s`), applyURL},
	{"repo", regexp.MustCompile(`^repo\s`), applyRepo},
	{"cdrom", regexp.MustCompile(`^cdrom\s*$`), applyCDROM},
	{"packages", regexp.MustCompile(`^%packages\b`), applyPackages},
	{"rootpw", regexp.MustCompile(`^rootpw\b`), applyRootPW},
	{"bootloader", regexp.MustCompile(`^bootloader\b`), applyBootloader},
	{"network", regexp.MustCompile(`^network\s`), applyNetwork},
}

// Rewrite walks the lines once in order. Injected lines land directly
// after their trigger line; only the hostname blocks are prepended to
// the whole document afterwards.
func (rw *Rewriter) Rewrite(ctx context.Context, lines []string) ([]string, InstallSource, error) {
	st := &rewriteState{}
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		replaced := []string{line}
		for _, r := range rules {
			if !r.match.MatchString(line) {
				continue
			}
			var err error
			replaced, err = r.apply(ctx, rw, st, line)
			if err != nil {
				return nil, InstallSource{}, fmt.Errorf("kickstart: %s line: %w", r.name, err)
			}
			break
		}
		out = append(out, replaced...)
	}

	if hostname := rw.Config.String(config.KeyHostname, ""); hostname != "" {
		// Under DHCP the installer can take a while to learn its own
		// name; setting it in %pre makes it visible immediately.
		out = append([]string{
			"%pre",
			"hostname " + hostname,
			"%end",
			"network --hostname=" + hostname,
		}, out...)
	}

	src, err := rw.finalizeSource(st)
	if err != nil {
		return nil, InstallSource{}, err
	}
	return out, src, nil
}

// finalizeSource picks the one install source for the run.
func (rw *Rewriter) finalizeSource(st *rewriteState) (InstallSource, error) {
	if iso := rw.Config.String(config.KeyISO, ""); iso != "" {
		return InstallSource{Kind: SourceISO, Path: iso}, nil
	}
	switch st.pending.Kind {
	case SourceURL:
		return st.pending, nil
	case SourceCDROM:
		return InstallSource{}, fmt.Errorf("kickstart: cdrom installation source but no ISO path")
	}
	return InstallSource{}, fmt.Errorf("kickstart: no installation source found")
}

func applyURL(ctx context.Context, rw *Rewriter, st *rewriteState, line string) ([]string, error) {
	kind, raw := sourceParam(line)
	if raw == "" {
		return []string{line}, nil
	}

	res, err := rw.URLs.Resolve(ctx, kind, raw)
	if err != nil {
		return nil, err
	}
	if res.URL == "" {
		// Metalink with no usable mirrors: leave the line alone and
		// let source finalization decide whether anything else can
		// serve as the install source.
		return []string{line}, nil
	}

	st.pending = InstallSource{
		Kind:   SourceURL,
		URL:    res.URL,
		Secure: strings.HasPrefix(res.URL, "https://"),
	}
	if kind != mirror.KindDirect && !res.Mapped {
		// The form changed (list resolved to a concrete URL), so the
		// line is rewritten canonically. Mapped hits keep their
		// original form; the resolved URL is only remembered.
		return []string{"url --url=" + res.URL}, nil
	}
	return []string{line}, nil
}

func applyRepo(ctx context.Context, rw *Rewriter, st *rewriteState, line string) ([]string, error) {
	// Repo lines only consult the mapping table; a miss is left
	// untouched and never triggers a network fetch.
	for _, param := range []string{"baseurl", "mirrorlist", "metalink"} {
		val := paramValue(line, param)
		if val == "" {
			continue
		}
		mapped, ok, err := rw.URLs.MapLookup(val)
		if err != nil {
			return nil, err
		}
		if ok {
			line = strings.Replace(line, "--"+param+"="+val, "--"+param+"="+mapped, 1)
		}
		break
	}
	return []string{line}, nil
}

func applyCDROM(_ context.Context, _ *Rewriter, st *rewriteState, line string) ([]string, error) {
	st.pending = InstallSource{Kind: SourceCDROM}
	return []string{line}, nil
}

func applyPackages(_ context.Context, rw *Rewriter, _ *rewriteState, line string) ([]string, error) {
	if !rw.Config.Bool(config.KeyAgent) {
		return []string{line}, nil
	}
	return []string{line, "qemu-guest-agent"}, nil
}

func applyRootPW(_ context.Context, rw *Rewriter, _ *rewriteState, line string) ([]string, error) {
	if !rw.Config.Bool(config.KeySSH) || len(rw.SSHKeys) == 0 {
		return []string{line}, nil
	}
	keys := append([]string(nil), rw.SSHKeys...)
	sort.Strings(keys)

	out := []string{line}
	for _, key := range keys {
		out = append(out, fmt.Sprintf("sshkey --username=root %q", key))
	}
	return out, nil
}

func applyBootloader(_ context.Context, rw *Rewriter, _ *rewriteState, line string) ([]string, error) {
	if !rw.Config.Bool(config.KeySerial) {
		return []string{line}, nil
	}
	// Both consoles are listed on purpose: the install environment
	// honors only the last console= given, while the installed system
	// keeps both and prefers the graphical one.
	return []string{line + ` --append="console=tty0 console=ttyS0"`}, nil
}

func applyNetwork(_ context.Context, rw *Rewriter, _ *rewriteState, line string) ([]string, error) {
	if !rw.Network.Static() || !strings.Contains(line, "--bootproto=dhcp") {
		return []string{line}, nil
	}

	spec := rw.Network
	static := fmt.Sprintf("--noipv6 --bootproto=static --ip=%s --netmask=%s --gateway=%s",
		spec.IP, spec.Netmask, spec.Gateway)
	if len(spec.DNS) > 0 {
		static += " --nameserver=" + strings.Join(spec.DNS, ",")
	}
	return []string{strings.Replace(line, "--bootproto=dhcp", static, 1)}, nil
}

// sourceParam finds the install-source parameter on a url line.
func sourceParam(line string) (mirror.SourceKind, string) {
	if v := paramValue(line, "url"); v != "" {
		return mirror.KindDirect, v
	}
	if v := paramValue(line, "mirrorlist"); v != "" {
		return mirror.KindMirrorlist, v
	}
	if v := paramValue(line, "metalink"); v != "" {
		return mirror.KindMetalink, v
	}
	return mirror.KindDirect, ""
}

// paramValue extracts the value of a --name=value parameter.
func paramValue(line, name string) string {
	prefix := "--" + name + "="
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, prefix) {
			return strings.Trim(field[len(prefix):], `"`)
		}
	}
	return ""
}
