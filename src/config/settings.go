package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const defaultSettingsFile = ".ks-install.toml"

// settingsDTO mirrors the settings file. Every field is a pointer so
// "present in the file" survives into the tier even when the value is
// zero or empty.
type settingsDTO struct {
	Arch       *string `toml:"arch" yaml:"arch"`
	Machine    *string `toml:"machine" yaml:"machine"`
	CPU        *int    `toml:"cpu" yaml:"cpu"`
	RAM        *int    `toml:"ram" yaml:"ram"`
	Disk       *int    `toml:"disk" yaml:"disk"`
	Disk2      *int    `toml:"disk2" yaml:"disk2"`
	ISO        *string `toml:"iso" yaml:"iso"`
	OS         *string `toml:"os" yaml:"os"`
	Pool       *string `toml:"pool" yaml:"pool"`
	Bridge     *string `toml:"bridge" yaml:"bridge"`
	IP         *string `toml:"ip" yaml:"ip"`
	Gateway    *string `toml:"gateway" yaml:"gateway"`
	DNS        *string `toml:"dns" yaml:"dns"`
	Hostname   *string `toml:"hostname" yaml:"hostname"`
	Agent      *bool   `toml:"agent" yaml:"agent"`
	SSH        *bool   `toml:"ssh" yaml:"ssh"`
	Serial     *bool   `toml:"serial" yaml:"serial"`
	UEFI       *bool   `toml:"uefi" yaml:"uefi"`
	SecureBoot *bool   `toml:"secureboot" yaml:"secureboot"`
	Firmware   *string `toml:"firmware" yaml:"firmware"`
	TPM        *bool   `toml:"tpm" yaml:"tpm"`
}

// DefaultSettingsPath returns ~/.ks-install.toml, or "" if the home
// directory cannot be determined.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultSettingsFile)
}

// LoadSettings reads the settings file into a tier. A missing file is
// not an error: the tier is simply empty. Files ending in .yml or
// .yaml are parsed as YAML, everything else as TOML.
func LoadSettings(path string) (Tier, error) {
	tier := Tier{}
	if path == "" {
		return tier, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tier, nil
		}
		return nil, fmt.Errorf("settings: %w", err)
	}

	var dto settingsDTO
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &dto)
	default:
		err = toml.Unmarshal(data, &dto)
	}
	if err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", path, err)
	}

	dto.fill(tier)
	return tier, nil
}

// fill copies every field that was present in the file into the tier.
func (d *settingsDTO) fill(tier Tier) {
	setStr := func(key Key, v *string) {
		if v != nil {
			tier[key] = *v
		}
	}
	setInt := func(key Key, v *int) {
		if v != nil {
			tier[key] = strconv.Itoa(*v)
		}
	}
	setBool := func(key Key, v *bool) {
		if v != nil {
			if *v {
				tier[key] = "1"
			} else {
				tier[key] = "0"
			}
		}
	}

	setStr(KeyArch, d.Arch)
	setStr(KeyMachine, d.Machine)
	setInt(KeyCPU, d.CPU)
	setInt(KeyRAM, d.RAM)
	setInt(KeyDisk, d.Disk)
	setInt(KeyDisk2, d.Disk2)
	setStr(KeyISO, d.ISO)
	setStr(KeyOS, d.OS)
	setStr(KeyPool, d.Pool)
	setStr(KeyBridge, d.Bridge)
	setStr(KeyIP, d.IP)
	setStr(KeyGateway, d.Gateway)
	setStr(KeyDNS, d.DNS)
	setStr(KeyHostname, d.Hostname)
	setBool(KeyAgent, d.Agent)
	setBool(KeySSH, d.SSH)
	setBool(KeySerial, d.Serial)
	setBool(KeyUEFI, d.UEFI)
	setBool(KeySecureBoot, d.SecureBoot)
	setStr(KeyFirmware, d.Firmware)
	setBool(KeyTPM, d.TPM)
}
