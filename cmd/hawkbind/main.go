package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hawkbind/hawkbind/pkg/runner"
	"github.com/projectdiscovery/gologger"
)

func main() {
	// Parse the command line flags and read config files
	options := runner.ParseOptions()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hawkbindRunner, err := runner.New(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	if _, err := hawkbindRunner.RunEnumeration(ctx); err != nil {
		if errors.Is(err, runner.ErrInterrupted) {
			stop()
			gologger.Warning().Msgf("Enumeration interrupted by user\n")
			os.Exit(1)
		}
		gologger.Fatal().Msgf("Could not run enumeration: %s\n", err)
	}
}
