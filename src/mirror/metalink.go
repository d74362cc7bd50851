package mirror

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// metalink models the slice of the metalink 3.0 schema we care
// about: the mirror resource URLs under files/file/resources.
type metalink struct {
	XMLName xml.Name       `xml:"metalink"`
	Files   []metalinkFile `xml:"files>file"`
}

type metalinkFile struct {
	Name      string        `xml:"name,attr"`
	Resources []metalinkURL `xml:"resources>url"`
}

type metalinkURL struct {
	Protocol string `xml:"protocol,attr"`
	Value    string `xml:",chardata"`
}

// parseMetalink extracts the first http(s) mirror base URL from a
// metalink document. The listed resources point at repodata/repomd.xml;
// the trailing metadata segment is stripped to get the repo base.
// Returns "" when no usable resource exists.
func parseMetalink(data []byte) (string, error) {
	var ml metalink
	if err := xml.Unmarshal(data, &ml); err != nil {
		return "", fmt.Errorf("metalink: parse: %w", err)
	}

	for _, file := range ml.Files {
		for _, res := range file.Resources {
			if res.Protocol != "http" && res.Protocol != "https" {
				continue
			}
			u := strings.TrimSpace(res.Value)
			if u == "" {
				continue
			}
			u = strings.TrimSuffix(u, "repodata/repomd.xml")
			return u, nil
		}
	}
	return "", nil
}
