package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noahmayr/vjj/internal/config"
	"github.com/noahmayr/vjj/internal/engine"
	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/log"
	"github.com/noahmayr/vjj/internal/watch"
)

// newCheckCmd creates the check command
func newCheckCmd(a *app) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the keymap",
		Long: `Check that the keymap parses, that every template in it is well formed
and only uses known variables, and that the jj log overrides are usable.

With --watch the user keymap is checked again every time it is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			err := checkKeymap(out, a.cfg)
			if !watchFile {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorText(err.Error()))
			}

			path := a.cfg.KeymapPath()
			if path == "" {
				return errors.New("--watch needs a user keymap; set keymap in the config file")
			}
			w, err := watch.New(path)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(out, infoText(fmt.Sprintf("Watching %s. Press Ctrl+C to stop.", w.Path())))
			for {
				select {
				case <-ctx.Done():
					return nil
				case change, ok := <-w.Changes():
					if !ok {
						return nil
					}
					log.LogWithFields(log.F("file", change.Path), log.F("op", change.Op.String())).Debug("keymap changed")
					if change.Removed() {
						fmt.Fprintln(out, warningText(change.Path+" was removed"))
						continue
					}
					if err := checkKeymap(out, a.cfg); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), errorText(err.Error()))
					}
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "check again whenever the keymap file changes")

	return cmd
}

// checkKeymap validates the keymap and log overrides, printing a summary on
// success.
func checkKeymap(out io.Writer, cfg *config.Config) error {
	store := cfg.KeymapStore()
	if err := store.Validate(engine.Variables); err != nil {
		log.LogWithError(err).Warn("keymap check failed")
		return err
	}
	if err := config.ValidateLogOverrides(config.LogOverrides()); err != nil {
		return err
	}
	fmt.Fprintln(out, successText(fmt.Sprintf("%s: %d modes ok", store.Source(), len(store.Modes()))))
	return nil
}
