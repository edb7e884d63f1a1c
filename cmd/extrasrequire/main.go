// Command extrasrequire expands extras-require directives in
// reStructuredText documentation.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/extrasrequire/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	code := cli.ExitCode(err)
	if code != 0 && code != 130 {
		cli.PrintError(os.Stderr, err)
	}
	os.Exit(code)
}
