package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// NetworkSpec is the resolved guest network configuration. A spec
// with no IP means DHCP; a static spec always has both IP and
// gateway, with the netmask derived from the prefix length.
type NetworkSpec struct {
	IP       string
	Prefix   int
	Netmask  string
	Gateway  string
	Hostname string
	DNS      []string
}

// Static reports whether an explicit address was configured.
func (n *NetworkSpec) Static() bool {
	return n != nil && n.IP != ""
}

// ParseNetwork resolves the network keys into a NetworkSpec.
// IP and gateway must be configured together or not at all; the IP
// carries a /len suffix with len in 1..31.
func ParseNetwork(r *Resolver) (*NetworkSpec, error) {
	spec := &NetworkSpec{
		Hostname: r.String(KeyHostname, ""),
	}
	if dns := r.String(KeyDNS, ""); dns != "" {
		for _, s := range strings.Split(dns, ",") {
			if s = strings.TrimSpace(s); s != "" {
				spec.DNS = append(spec.DNS, s)
			}
		}
	}

	ip := r.String(KeyIP, "")
	gw := r.String(KeyGateway, "")
	if ip == "" && gw == "" {
		return spec, nil
	}
	if ip == "" || gw == "" {
		return nil, fmt.Errorf("network: ip and gateway must be set together")
	}

	addr, prefixStr, ok := strings.Cut(ip, "/")
	if !ok {
		return nil, fmt.Errorf("network: ip %q missing /prefix", ip)
	}
	parsed := net.ParseIP(addr)
	if parsed == nil || parsed.To4() == nil {
		return nil, fmt.Errorf("network: invalid IPv4 address %q", addr)
	}
	prefix, err := strconv.Atoi(prefixStr)
	if err != nil || prefix < 1 || prefix > 31 {
		return nil, fmt.Errorf("network: prefix length %q out of range (1-31)", prefixStr)
	}
	if net.ParseIP(gw) == nil {
		return nil, fmt.Errorf("network: invalid gateway %q", gw)
	}

	mask := net.CIDRMask(prefix, 32)
	spec.IP = addr
	spec.Prefix = prefix
	spec.Netmask = net.IP(mask).String()
	spec.Gateway = gw
	return spec, nil
}
