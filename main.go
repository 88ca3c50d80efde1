package main

import (
	"os"
	"os/signal"

	"github.com/dimplex-community/dimctl/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Logging is off unless DEBUG_DIMCTL is set; the CLI output itself
	// goes through cobra, not the logger.
	if os.Getenv("DEBUG_DIMCTL") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}

	// Ctrl-C exits immediately instead of leaving a half-finished command
	// hanging on a network call.
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	go func() {
		<-stopChan
		log.Fatal().Msg("Interrupt signal received. Exiting...")
	}()

	cmd.Execute()
}
