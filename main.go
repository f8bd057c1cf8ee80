package main

import (
	"context"
	"os"

	"github.com/dencangan/automation-framework/core"
)

func main() {
	ctx := core.WithDefaultLogger(context.Background(), "main")

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		core.Errorf(ctx, "%v", err)
		os.Exit(1)
	}
}
