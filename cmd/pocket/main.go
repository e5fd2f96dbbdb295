package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/pocket-cli/internal/config"
	"github.com/samvad-hq/pocket-cli/pkg/httpclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], defaultDeps())
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// deps holds the collaborators the command tree needs, swappable in tests.
type deps struct {
	loadConfig func() (*config.Config, error)
	httpClient httpclient.Client
	stdout     io.Writer
	stderr     io.Writer
}

func defaultDeps() deps {
	return deps{
		loadConfig: func() (*config.Config, error) { return config.Load() },
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

func run(ctx context.Context, args []string, d deps) error {
	g := &globalFlags{}
	defer func() {
		if g.log != nil {
			_ = g.log.Sync()
		}
	}()

	root := newRootCmd(d, g)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// reportError prints err in the form users see on stderr.
func reportError(w io.Writer, err error) {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(w, "ERROR: %s is not set\n", cfgErr.Variable)
		return
	}
	fmt.Fprintf(w, "ERROR: %v\n", err)
}
