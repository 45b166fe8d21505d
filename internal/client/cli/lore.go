package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func loreCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:       "lore <mood|feather|symbol>",
		Short:     "Describe the moods, feathers and symbols",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"mood", "feather", "symbol"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			entries, err := a.client.Lore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return table(a.out, "KEY\tLABEL\tICON\tDESCRIPTION", func(tw *tabwriter.Writer) {
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Label, e.Icon, e.Description)
				}
			})
		},
	}
}
