package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cmadamsgit/ks-install/src/config"
)

var (
	cfgFile   string
	mirrorMap string
	verbose   bool
	quiet     bool
	fileTier  config.Tier
)

var rootCmd = &cobra.Command{
	Use:   "ks-install",
	Short: "Kickstart preprocessing and unattended VM installs",
	Long: `ks-install preprocesses templated kickstart documents and drives
unattended installs with virt-install.

Configuration resolves through four tiers, highest first: command-line
flags, in-document #TAG: directives, the settings file, built-in defaults.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// No settings needed to print the version.
		if cmd.Name() == "version" {
			return nil
		}
		path := cfgFile
		if path == "" {
			path = config.DefaultSettingsPath()
		}
		var err error
		fileTier, err = config.LoadSettings(path)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "settings file (default: ~/.ks-install.toml)")
	pf.StringVar(&mirrorMap, "mirror-map", "", "mirror mapping file (default: ~/.ks-install.map)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	// One flag per configuration key. Only flags the user actually
	// changed enter the CLI tier, so these defaults never shadow the
	// lower tiers.
	pf.String("arch", "", "target architecture ($basearch value)")
	pf.String("machine", "", "machine type")
	pf.Int("cpu", 2, "virtual CPU count")
	pf.Int("ram", 4096, "memory in MiB")
	pf.Int("disk", 20, "primary disk size in GiB")
	pf.Int("disk2", 0, "second disk size in GiB (0 = none)")
	pf.String("iso", "", "installation ISO path")
	pf.String("os", "", "OS variant string")
	pf.String("pool", "default", "storage pool")
	pf.String("bridge", "", "bridge interface (default: libvirt default network)")
	pf.String("ip", "", "static guest address, A.B.C.D/len")
	pf.String("gateway", "", "static gateway address")
	pf.String("dns", "", "comma-separated DNS servers")
	pf.String("hostname", "", "guest hostname")
	pf.Bool("agent", true, "add the guest agent package")
	pf.Bool("ssh", true, "inject discovered SSH public keys for root")
	pf.Bool("serial", true, "enable the serial console")
	pf.Bool("uefi", false, "boot with UEFI firmware")
	pf.Bool("secureboot", false, "boot with secure-boot firmware")
	pf.String("firmware", "", "explicit firmware path")
	pf.Bool("tpm", false, "attach an emulated TPM 2.0")
}

// cliTier collects every configuration flag the user explicitly set.
// Presence, not value, is what puts a key in the tier: --cpu=0 counts.
func cliTier(flags *pflag.FlagSet) config.Tier {
	tier := config.Tier{}
	for _, key := range config.Keys() {
		if f := flags.Lookup(string(key)); f != nil && f.Changed {
			tier[key] = f.Value.String()
		}
	}
	return tier
}

// mirrorMapPath returns the mapping file to use; a missing file is
// handled downstream by skipping mapping entirely.
func mirrorMapPath() string {
	if mirrorMap != "" {
		return mirrorMap
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ks-install.map")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
