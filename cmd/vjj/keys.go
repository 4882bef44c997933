package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/keymap"
	"github.com/noahmayr/vjj/pkg/types"
)

// newKeysCmd creates the keys command
func newKeysCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "keys [mode]",
		Short: "List the key bindings of a mode",
		Long: `Print the help listing of a mode (normal when omitted), the same text
the ? key shows inside the picker.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := types.NormalMode().Keymap()
			if len(args) == 1 {
				mode = args[0]
			}

			b, err := a.cfg.KeymapStore().Lookup(mode)
			if errors.IsMissingKeymap(err) {
				fmt.Fprintln(cmd.OutOrStdout(), keymap.NoCommands)
				return nil
			}
			if err != nil {
				return err
			}

			b, err = keymap.Filter(b, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), keymap.Help(mode, b))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only list keys matching a glob pattern, e.g. 'g*'")

	return cmd
}
