// Command geograph builds topology graphs from GIS features.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geograph/internal/cli"
	"github.com/matzehuels/geograph/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(exitCode(run(ctx)))
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
	}

	return root.ExecuteContext(ctx)
}

// exitCode reports err and maps it to a process exit status: 130 after an
// interrupt, 2 for bad configuration or input, 1 otherwise.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if stderrors.Is(err, context.Canceled) {
		return 130
	}
	if code := errors.GetCode(err); code != "" {
		fmt.Fprintf(os.Stderr, "error [%s]: %s\n", code, errors.UserMessage(err))
	} else {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidGeometry, errors.ErrCodeFileNotFound:
		return 2
	}
	return 1
}
