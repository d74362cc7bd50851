package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadSettingsTOML(t *testing.T) {
	path := writeSettings(t, "settings.toml", `
cpu = 4
ram = 8192
iso = "/srv/isos/f42.iso"
serial = false
`)
	tier, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	want := map[Key]string{
		KeyCPU:    "4",
		KeyRAM:    "8192",
		KeyISO:    "/srv/isos/f42.iso",
		KeySerial: "0",
	}
	for key, v := range want {
		if got, ok := tier[key]; !ok || got != v {
			t.Errorf("tier[%s] = %q, %v; want %q", key, got, ok, v)
		}
	}
	if _, ok := tier[KeyHostname]; ok {
		t.Error("hostname was not in the file but is in the tier")
	}
}

// Keys present in the file with zero values must land in the tier:
// presence is what the resolver keys on.
func TestLoadSettingsZeroValuesAreSet(t *testing.T) {
	path := writeSettings(t, "settings.toml", `
disk2 = 0
hostname = ""
agent = false
`)
	tier, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	if got, ok := tier[KeyDisk2]; !ok || got != "0" {
		t.Errorf("tier[disk2] = %q, %v; want \"0\", present", got, ok)
	}
	if got, ok := tier[KeyHostname]; !ok || got != "" {
		t.Errorf("tier[hostname] = %q, %v; want \"\", present", got, ok)
	}
	if got, ok := tier[KeyAgent]; !ok || got != "0" {
		t.Errorf("tier[agent] = %q, %v; want \"0\", present", got, ok)
	}
}

func TestLoadSettingsYAML(t *testing.T) {
	path := writeSettings(t, "settings.yml", `
cpu: 2
bridge: br0
uefi: true
`)
	tier, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	if tier[KeyBridge] != "br0" || tier[KeyCPU] != "2" || tier[KeyUEFI] != "1" {
		t.Errorf("unexpected tier from yaml: %v", tier)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	tier, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing settings file should be skipped, got %v", err)
	}
	if len(tier) != 0 {
		t.Errorf("expected empty tier, got %v", tier)
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	path := writeSettings(t, "settings.toml", "cpu = [nonsense")
	if _, err := LoadSettings(path); err == nil {
		t.Error("malformed settings file should fail, not be hidden")
	}
}
