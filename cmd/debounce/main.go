// Command debounce runs a command once per burst of file-system changes.
//
//	debounce --wait 500ms --watch ./src -- go build ./...
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("debounce failed")
		stop()
		os.Exit(1)
	}
}
