// Package vm builds and runs the virt-install invocation for a
// preprocessed kickstart document.
package vm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmadamsgit/ks-install/src/config"
	"github.com/cmadamsgit/ks-install/src/kickstart"
)

// defaultSecureBootFirmware is the edk2 build virt-install expects
// when secure boot is requested without an explicit firmware path.
const defaultSecureBootFirmware = "/usr/share/edk2/ovmf/OVMF_CODE.secboot.fd"

// Plan is a fully built virt-install invocation.
type Plan struct {
	Name string
	Args []string
}

// BuildPlan assembles the virt-install argument vector from the
// effective configuration, the rewritten document, the install
// source, and the network spec.
func BuildPlan(cfg *config.Resolver, name, ksPath string, src kickstart.InstallSource, net *config.NetworkSpec) (*Plan, error) {
	cpus, err := cfg.Int(config.KeyCPU, 2)
	if err != nil {
		return nil, err
	}
	ram, err := cfg.Int(config.KeyRAM, 4096)
	if err != nil {
		return nil, err
	}
	disk, err := cfg.Int(config.KeyDisk, 20)
	if err != nil {
		return nil, err
	}

	args := []string{
		"--name", name,
		"--vcpus", fmt.Sprint(cpus),
		"--memory", fmt.Sprint(ram),
		"--disk", fmt.Sprintf("pool=%s,size=%d", cfg.String(config.KeyPool, "default"), disk),
	}

	if disk2, err := cfg.Int(config.KeyDisk2, 0); err != nil {
		return nil, err
	} else if disk2 > 0 {
		args = append(args, "--disk", fmt.Sprintf("pool=%s,size=%d", cfg.String(config.KeyPool, "default"), disk2))
	}

	if osVariant := cfg.String(config.KeyOS, ""); osVariant != "" {
		args = append(args, "--os-variant", osVariant)
	}
	if arch := cfg.String(config.KeyArch, ""); arch != "" {
		args = append(args, "--arch", arch)
	}
	if machine := cfg.String(config.KeyMachine, ""); machine != "" {
		args = append(args, "--machine", machine)
	}

	if bridge := cfg.String(config.KeyBridge, ""); bridge != "" {
		args = append(args, "--network", "bridge="+bridge)
	} else {
		args = append(args, "--network", "network=default")
	}

	switch src.Kind {
	case kickstart.SourceISO:
		args = append(args, "--location", src.Path)
	case kickstart.SourceURL:
		args = append(args, "--location", src.URL)
	default:
		return nil, fmt.Errorf("vm: no usable installation source: %s", src)
	}

	boot, err := bootArgs(cfg)
	if err != nil {
		return nil, err
	}
	args = append(args, boot...)

	if cfg.Bool(config.KeyTPM) {
		args = append(args, "--tpm", "backend.type=emulator,backend.version=2.0,model=tpm-tis")
	}
	if cfg.Bool(config.KeySerial) {
		args = append(args, "--graphics", "none")
	}

	args = append(args, "--initrd-inject", ksPath)
	args = append(args, "--extra-args", extraArgs(cfg, ksPath, net))

	return &Plan{Name: name, Args: args}, nil
}

// bootArgs handles the UEFI and secure-boot toggles. Secure boot with
// missing firmware files is fatal: a silently downgraded boot mode
// would install a machine that cannot attest what was asked for.
func bootArgs(cfg *config.Resolver) ([]string, error) {
	if cfg.Bool(config.KeySecureBoot) {
		firmware := cfg.String(config.KeyFirmware, defaultSecureBootFirmware)
		if _, err := os.Stat(firmware); err != nil {
			return nil, fmt.Errorf("vm: secure boot firmware %s: %w", firmware, err)
		}
		return []string{"--boot", fmt.Sprintf("loader=%s,loader.readonly=yes,loader.type=pflash,loader.secure=yes", firmware)}, nil
	}
	if cfg.Bool(config.KeyUEFI) {
		if firmware := cfg.String(config.KeyFirmware, ""); firmware != "" {
			return []string{"--boot", fmt.Sprintf("loader=%s,loader.readonly=yes,loader.type=pflash", firmware)}, nil
		}
		return []string{"--boot", "uefi"}, nil
	}
	return nil, nil
}

// extraArgs builds the installer kernel command line: the injected
// kickstart reference, optional serial console, and the static ip=
// argument anaconda needs before the kickstart network line applies.
func extraArgs(cfg *config.Resolver, ksPath string, net *config.NetworkSpec) string {
	parts := []string{"inst.ks=file:/" + filepath.Base(ksPath)}
	if cfg.Bool(config.KeySerial) {
		parts = append(parts, "console=ttyS0")
	}
	if net.Static() {
		parts = append(parts, fmt.Sprintf("ip=%s::%s:%s:%s::none",
			net.IP, net.Gateway, net.Netmask, net.Hostname))
		if len(net.DNS) > 0 {
			parts = append(parts, "nameserver="+strings.Join(net.DNS, ","))
		}
	}
	return strings.Join(parts, " ")
}
