package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmadamsgit/ks-install/src/config"
	"github.com/cmadamsgit/ks-install/src/fetch"
	"github.com/cmadamsgit/ks-install/src/kickstart"
	"github.com/cmadamsgit/ks-install/src/output"
	"github.com/cmadamsgit/ks-install/src/sshkeys"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <kickstart>",
	Short: "Preprocess a kickstart document",
	Long: `Resolve a kickstart document into its final install-ready form:
expand #include: lines, extract #TAG: directives, resolve the install
source (mirror lists and metalinks become concrete URLs), and apply the
content rewrite rules. The document reference may be a local path or an
http(s) URL.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the document here instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

// preprocess runs the shared pipeline for render and install.
func preprocess(cmd *cobra.Command, ref string) (*kickstart.Result, error) {
	keys, err := sshkeys.Discover("")
	if err != nil {
		return nil, fmt.Errorf("discovering ssh keys: %w", err)
	}

	return kickstart.Run(cmd.Context(), ref, kickstart.PipelineOptions{
		CLI:           cliTier(cmd.Flags()),
		File:          fileTier,
		MirrorMapPath: mirrorMapPath(),
		SSHKeys:       keys,
		Fetcher:       fetch.NewClient(0),
	})
}

func runRender(cmd *cobra.Command, args []string) error {
	start := time.Now()
	res, err := preprocess(cmd, args[0])
	if err != nil {
		return err
	}

	doc := strings.Join(res.Lines, "\n") + "\n"
	if renderOutput == "" || renderOutput == "-" {
		fmt.Print(doc)
	} else if err := os.WriteFile(renderOutput, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", renderOutput, err)
	}

	if verbose && !quiet {
		printSummary(res, time.Since(start))
	}
	return nil
}

// printSummary renders the resolved run facts in an output section.
func printSummary(res *kickstart.Result, elapsed time.Duration) {
	sec := output.NewSection(os.Stderr, "Render", elapsed, output.UseColor())
	sec.KeyValue("source", res.Source.String())
	if res.Network.Static() {
		sec.KeyValue("network", fmt.Sprintf("%s/%d via %s", res.Network.IP, res.Network.Prefix, res.Network.Gateway))
	} else {
		sec.KeyValue("network", "dhcp")
	}
	if res.Network.Hostname != "" {
		sec.KeyValue("hostname", res.Network.Hostname)
	}
	sec.Separator()
	for _, key := range config.Keys() {
		if v, ok := res.Config.Lookup(key); ok {
			sec.KeyValue(string(key), v)
		}
	}
	sec.Close()
}
