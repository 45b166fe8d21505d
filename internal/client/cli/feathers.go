package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/spf13/cobra"
)

func featherCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "feather",
		Aliases: []string{"vote"},
		Short:   "Cast and inspect feather votes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "cast <poem-id> <bronze|silver|gold>",
			Short: "Give a feather to someone else's poem",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.requireLogin(); err != nil {
					return err
				}
				resp, err := a.client.CastVote(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Feather #%d cast on #%d. ", resp.Vote.ID, id)
				printTally(a.out, resp.Tally, resp.Symbol)
				for _, r := range resp.Unlocked {
					fmt.Fprintf(a.out, "Reward unlocked: %s (%s)\n", r.Label, r.Code)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "withdraw <vote-id>",
			Short: "Take back one of your feathers",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.requireLogin(); err != nil {
					return err
				}
				if err := a.client.WithdrawVote(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Feather #%d withdrawn.\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "tally <poem-id>",
			Short: "Count a poem's feathers and show its symbol",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				resp, err := a.client.Tally(cmd.Context(), id)
				if err != nil {
					return err
				}
				printTally(a.out, resp.Tally, resp.Symbol)
				return nil
			},
		},
		featherListCommand(app),
	)
	return cmd
}

func featherListCommand(app func() *App) *cobra.Command {
	req := &api.ListVotesRequest{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feathers on a poem, by a voter, or your own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if req.PoemID == 0 && req.VoterID == 0 {
				if err := a.requireLogin(); err != nil {
					return err
				}
			}
			votes, err := a.client.ListVotes(cmd.Context(), req)
			if err != nil {
				return err
			}
			if len(votes) == 0 {
				fmt.Fprintln(a.out, "No feathers.")
				return nil
			}
			return table(a.out, "ID\tPOEM\tVOTER\tWEIGHT\tCAST", func(tw *tabwriter.Writer) {
				for _, v := range votes {
					fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", v.ID, v.PoemID, v.VoterID, v.Weight, v.CreatedAt.Local().Format(time.DateTime))
				}
			})
		},
	}
	cmd.Flags().Int64Var(&req.PoemID, "poem", 0, "feathers on this poem")
	cmd.Flags().Int64Var(&req.VoterID, "voter", 0, "feathers cast by this user")
	cmd.Flags().IntVar(&req.Page.Limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&req.Page.Offset, "offset", 0, "rows to skip")
	return cmd
}
