package main

import (
	"context"
	"os"
	"os/signal"

	buildersetup "github.com/arthur-debert/buildsetup/cmd/builder-setup"
	"github.com/arthur-debert/buildsetup/pkg/display"
	"github.com/arthur-debert/buildsetup/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := buildersetup.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		display.NewRenderer(os.Stderr, ui.DetectFormat(os.Stderr), ui.DefaultStyles()).Error(err)
		stop()
		os.Exit(1)
	}
}
