package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/romdo/go-debounced/internal/watch"
)

type options struct {
	wait      time.Duration
	immediate bool
	paths     []string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "debounce [flags] -- command [args...]",
		Short: "Run a command once per burst of file changes",
		Long: `Watch files and directories, and run a command once changes have
settled for the wait duration. With --immediate the command runs on the first
change instead, and further changes are ignored until things have been quiet
for the wait duration.

The command receives the path and operation of the triggering change in the
DEBOUNCE_EVENT_PATH and DEBOUNCE_EVENT_OP environment variables.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := setupLogging(opts.logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	f := cmd.Flags()
	f.DurationVarP(&opts.wait, "wait", "w", 300*time.Millisecond,
		"quiet period that ends a burst of changes")
	f.BoolVarP(&opts.immediate, "immediate", "i", false,
		"run on the first change of a burst instead of after it")
	f.StringSliceVarP(&opts.paths, "watch", "p", []string{"."},
		"file or directory to watch, can be repeated")
	f.StringVar(&opts.logLevel, "log-level", logLevel,
		"log level (trace, debug, info, warn, error)")

	return cmd
}

func setupLogging(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.000",
	}).With().Timestamp().Logger()

	return log.Logger, nil
}

func run(ctx context.Context, opts *options, args []string) error {
	w, err := watch.New(watch.Config{
		Paths:     opts.paths,
		Wait:      opts.wait,
		Immediate: opts.immediate,
	}, commandAction(args))
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx)
}

// commandAction returns an action that runs args as a command, with the
// triggering event in its environment.
func commandAction(args []string) watch.Action {
	return func(ctx context.Context, ev fsnotify.Event) error {
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Env = append(os.Environ(),
			"DEBOUNCE_EVENT_PATH="+ev.Name,
			"DEBOUNCE_EVENT_OP="+ev.Op.String(),
		)

		zerolog.Ctx(ctx).Info().Strs("command", args).Msg("running")

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}

		return nil
	}
}
