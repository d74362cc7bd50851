package kickstart

import (
	"context"

	"github.com/cmadamsgit/ks-install/src/config"
	"github.com/cmadamsgit/ks-install/src/mirror"
)

// PipelineOptions carries everything one preprocessing run needs.
// The context object replaces process-wide state: tiers, mirror map
// path, and fetcher are constructed once and threaded through.
type PipelineOptions struct {
	CLI           config.Tier // values the user set on the command line
	File          config.Tier // loaded settings file
	MirrorMapPath string
	SSHKeys       []string
	Fetcher       Fetcher
}

// Result is the output of one preprocessing run.
type Result struct {
	Lines   []string
	Source  InstallSource
	Config  *config.Resolver
	Network *config.NetworkSpec
}

// Run executes the full preprocessing pipeline: load and expand the
// document, extract directives, build the tiered resolver, and
// rewrite content lines. Any fatal condition aborts before a result
// exists; there is no partial output.
func Run(ctx context.Context, ref string, opts PipelineOptions) (*Result, error) {
	loader := &Loader{Fetcher: opts.Fetcher}
	lines, err := loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	stripped, overrides, err := ExtractDirectives(lines)
	if err != nil {
		return nil, err
	}

	cfg := config.NewResolver(opts.CLI, overrides, opts.File, config.Defaults())

	network, err := config.ParseNetwork(cfg)
	if err != nil {
		return nil, err
	}

	rw := &Rewriter{
		Config:  cfg,
		URLs:    mirror.NewResolver(opts.MirrorMapPath, cfg.String(config.KeyArch, ""), opts.Fetcher),
		Network: network,
		SSHKeys: opts.SSHKeys,
	}
	out, src, err := rw.Rewrite(ctx, stripped)
	if err != nil {
		return nil, err
	}

	return &Result{
		Lines:   out,
		Source:  src,
		Config:  cfg,
		Network: network,
	}, nil
}
