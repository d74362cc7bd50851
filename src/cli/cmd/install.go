package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmadamsgit/ks-install/src/output"
	"github.com/cmadamsgit/ks-install/src/vm"
)

var installDryRun bool

var installCmd = &cobra.Command{
	Use:   "install <kickstart> <name>",
	Short: "Preprocess a kickstart document and run virt-install",
	Long: `Preprocess the kickstart document, write the resolved result to a
temporary file, and hand it to virt-install as the named guest.

The document is fully built before any provisioning action runs: a
fatal error anywhere in loading, resolution, or rewriting aborts with
nothing created.`,
	Args: cobra.ExactArgs(2),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "print the virt-install command instead of running it")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ref, name := args[0], args[1]
	console := output.NewConsole(verbose, quiet)

	res, err := preprocess(cmd, ref)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", name+"-*.ks")
	if err != nil {
		return fmt.Errorf("writing kickstart: %w", err)
	}
	doc := strings.Join(res.Lines, "\n") + "\n"
	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("writing kickstart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing kickstart: %w", err)
	}
	console.Debug("kickstart written to %s", tmp.Name())

	plan, err := vm.BuildPlan(res.Config, name, tmp.Name(), res.Source, res.Network)
	if err != nil {
		return err
	}

	if installDryRun {
		fmt.Println("virt-install " + strings.Join(plan.Args, " "))
		return nil
	}

	console.Info("installing %s from %s", name, res.Source)
	runner := &vm.Runner{}
	if err := runner.Run(cmd.Context(), plan); err != nil {
		console.Info("%s install of %s failed", output.StatusIcon("failed", console.Color), name)
		return err
	}
	console.Info("%s install of %s finished", output.StatusIcon("success", console.Color), name)
	return nil
}
