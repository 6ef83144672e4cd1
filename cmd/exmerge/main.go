// Package main provides the CLI entry point for exmerge.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
