package kickstart

import "fmt"

// SourceKind tags the resolved install source variant.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceISO
	SourceURL
	SourceCDROM
)

// InstallSource is the resolved installation source handed to the
// installer. Exactly one variant is chosen per run: the last
// applicable url/cdrom line wins, and a user-supplied ISO path takes
// priority over a discovered URL.
type InstallSource struct {
	Kind   SourceKind
	Path   string // SourceISO
	URL    string // SourceURL
	Secure bool   // SourceURL: https
}

func (s InstallSource) String() string {
	switch s.Kind {
	case SourceISO:
		return fmt.Sprintf("iso %s", s.Path)
	case SourceURL:
		return fmt.Sprintf("url %s", s.URL)
	case SourceCDROM:
		return "cdrom"
	}
	return "none"
}
