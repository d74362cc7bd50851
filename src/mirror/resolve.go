// Package mirror resolves install-source declarations (direct URLs,
// mirror lists, metalinks) into one concrete base URL, applying the
// local mirror-mapping table and architecture substitution.
package mirror

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/cmadamsgit/ks-install/src/fetch"
)

// Fetcher retrieves a remote document. Satisfied by *fetch.Client.
type Fetcher interface {
	Bytes(ctx context.Context, url string) ([]byte, error)
}

// SourceKind distinguishes the three install-source declaration forms.
type SourceKind int

const (
	KindDirect SourceKind = iota
	KindMirrorlist
	KindMetalink
)

// Resolver turns an install-source declaration into a concrete base
// URL. One resolver serves one run; the embedded mirror map caches
// its table across lookups and is not safe for concurrent use.
type Resolver struct {
	Map     *Map
	Arch    string // explicit architecture override; "" means host arch
	Fetcher Fetcher
}

// NewResolver builds a resolver over the given mirror-map file.
func NewResolver(mapPath, arch string, f Fetcher) *Resolver {
	if f == nil {
		f = fetch.NewClient(0)
	}
	return &Resolver{
		Map:     &Map{Path: mapPath},
		Arch:    arch,
		Fetcher: f,
	}
}

// Result is one resolved install source.
type Result struct {
	URL    string
	Mapped bool // true when the mirror map answered without a fetch
}

// Resolve produces the concrete base URL for a declaration.
// Mirror-list and metalink URLs consult the mapping table first and
// only fetch on a miss. A metalink with no usable http(s) resource
// yields an empty URL; the caller decides whether that is fatal.
func (r *Resolver) Resolve(ctx context.Context, kind SourceKind, url string) (Result, error) {
	switch kind {
	case KindDirect:
		return Result{URL: r.Substitute(url)}, nil
	case KindMirrorlist:
		return r.resolveMirrorlist(ctx, url)
	case KindMetalink:
		return r.resolveMetalink(ctx, url)
	}
	return Result{}, fmt.Errorf("mirror: unknown source kind %d", kind)
}

// MapLookup exposes the raw mapping-table lookup. Used for repo
// lines, which never trigger a network fetch.
func (r *Resolver) MapLookup(url string) (string, bool, error) {
	return r.Map.Lookup(url)
}

func (r *Resolver) resolveMirrorlist(ctx context.Context, url string) (Result, error) {
	if mapped, ok, err := r.Map.Lookup(url); err != nil {
		return Result{}, err
	} else if ok {
		return Result{URL: r.Substitute(mapped), Mapped: true}, nil
	}

	data, err := r.Fetcher.Bytes(ctx, r.Substitute(url))
	if err != nil {
		return Result{}, fmt.Errorf("mirror: mirrorlist: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			return Result{URL: r.Substitute(line)}, nil
		}
	}
	return Result{}, fmt.Errorf("mirror: mirrorlist %s: no http(s) entries", url)
}

func (r *Resolver) resolveMetalink(ctx context.Context, url string) (Result, error) {
	if mapped, ok, err := r.Map.Lookup(url); err != nil {
		return Result{}, err
	} else if ok {
		return Result{URL: r.Substitute(mapped), Mapped: true}, nil
	}

	data, err := r.Fetcher.Bytes(ctx, r.Substitute(url))
	if err != nil {
		return Result{}, fmt.Errorf("mirror: metalink: %w", err)
	}
	base, err := parseMetalink(data)
	if err != nil {
		return Result{}, err
	}
	// No usable resource leaves the source unresolved, not failed:
	// the document may still supply an ISO or CD-ROM source.
	return Result{URL: r.Substitute(base)}, nil
}

// Substitute replaces $basearch in a URL with the configured
// architecture, or the host architecture when none is configured.
func (r *Resolver) Substitute(url string) string {
	if !strings.Contains(url, "$basearch") {
		return url
	}
	return strings.ReplaceAll(url, "$basearch", r.arch())
}

func (r *Resolver) arch() string {
	if r.Arch != "" {
		return r.Arch
	}
	return hostArch()
}

// hostArch maps the Go architecture name to the distro arch string
// used in repository paths.
func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i386"
	default:
		return runtime.GOARCH
	}
}
