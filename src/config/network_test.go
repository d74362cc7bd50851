package config

import (
	"reflect"
	"testing"
)

func resolverWith(tier Tier) *Resolver {
	return NewResolver(tier, nil, nil, nil)
}

func TestParseNetworkStatic(t *testing.T) {
	spec, err := ParseNetwork(resolverWith(Tier{
		KeyIP:       "10.0.0.1/24",
		KeyGateway:  "10.0.0.254",
		KeyDNS:      "8.8.8.8, 1.1.1.1",
		KeyHostname: "guest.example.com",
	}))
	if err != nil {
		t.Fatalf("ParseNetwork: %v", err)
	}

	if !spec.Static() {
		t.Fatal("expected a static spec")
	}
	if spec.IP != "10.0.0.1" || spec.Prefix != 24 {
		t.Errorf("ip = %s/%d, want 10.0.0.1/24", spec.IP, spec.Prefix)
	}
	if spec.Netmask != "255.255.255.0" {
		t.Errorf("netmask = %s, want 255.255.255.0", spec.Netmask)
	}
	if spec.Gateway != "10.0.0.254" {
		t.Errorf("gateway = %s", spec.Gateway)
	}
	if want := []string{"8.8.8.8", "1.1.1.1"}; !reflect.DeepEqual(spec.DNS, want) {
		t.Errorf("dns = %v, want %v", spec.DNS, want)
	}
	if spec.Hostname != "guest.example.com" {
		t.Errorf("hostname = %s", spec.Hostname)
	}
}

func TestParseNetworkDHCP(t *testing.T) {
	spec, err := ParseNetwork(resolverWith(Tier{KeyHostname: "dhcp-guest"}))
	if err != nil {
		t.Fatalf("ParseNetwork: %v", err)
	}
	if spec.Static() {
		t.Error("no ip configured, spec should mean DHCP")
	}
	if spec.Hostname != "dhcp-guest" {
		t.Errorf("hostname = %s", spec.Hostname)
	}
}

func TestParseNetworkPrefixBounds(t *testing.T) {
	base := Tier{KeyGateway: "10.0.0.1"}

	for _, prefix := range []string{"1", "31"} {
		tier := Tier{KeyIP: "10.0.0.2/" + prefix, KeyGateway: base[KeyGateway]}
		if _, err := ParseNetwork(resolverWith(tier)); err != nil {
			t.Errorf("prefix %s should be accepted: %v", prefix, err)
		}
	}
	for _, prefix := range []string{"0", "32", "-1", "ab"} {
		tier := Tier{KeyIP: "10.0.0.2/" + prefix, KeyGateway: base[KeyGateway]}
		if _, err := ParseNetwork(resolverWith(tier)); err == nil {
			t.Errorf("prefix %s should be rejected", prefix)
		}
	}
}

func TestParseNetworkErrors(t *testing.T) {
	cases := []struct {
		name string
		tier Tier
	}{
		{"ip without gateway", Tier{KeyIP: "10.0.0.1/24"}},
		{"gateway without ip", Tier{KeyGateway: "10.0.0.1"}},
		{"missing prefix", Tier{KeyIP: "10.0.0.1", KeyGateway: "10.0.0.254"}},
		{"bad address", Tier{KeyIP: "10.0.0.300/24", KeyGateway: "10.0.0.254"}},
		{"bad gateway", Tier{KeyIP: "10.0.0.1/24", KeyGateway: "not-an-ip"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseNetwork(resolverWith(tc.tier)); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}
