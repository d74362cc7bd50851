package vm

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner executes a built plan through the virt-install binary.
type Runner struct {
	Command string    // defaults to "virt-install"
	Stdout  io.Writer // defaults to os.Stdout
	Stderr  io.Writer // defaults to os.Stderr
}

// Run starts virt-install and streams both output pipes until the
// process exits. Cancelling the context kills the installer.
func (r *Runner) Run(ctx context.Context, plan *Plan) error {
	command := r.Command
	if command == "" {
		command = "virt-install"
	}
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cmd := exec.CommandContext(ctx, command, plan.Args...)
	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("vm: %w", err)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("vm: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("vm: start %s: %w", command, err)
	}

	g := &errgroup.Group{}
	g.Go(func() error {
		_, err := io.Copy(stdout, outPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(stderr, errPipe)
		return err
	})
	streamErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("vm: %s: %w", command, err)
	}
	return streamErr
}

// AddressLookup asks the virtualization layer for the guest address.
// It returns "" while the guest has not reported one yet.
type AddressLookup func(ctx context.Context) (string, error)

// WaitAddress polls lookup until it returns an address or the timeout
// elapses. The interval backs off by half each round, capped at ten
// times the initial value, so a slow guest is not hammered forever.
func WaitAddress(ctx context.Context, lookup AddressLookup, interval, timeout time.Duration) (string, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wait := interval
	for {
		addr, err := lookup(ctx)
		if err != nil {
			return "", err
		}
		if addr != "" {
			return addr, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("vm: timed out waiting for guest address after %s", timeout)
		case <-time.After(wait):
		}

		wait += wait / 2
		if max := interval * 10; wait > max {
			wait = max
		}
	}
}
